package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the layout of the JSON
// configuration file.
type StructuredJSONConfig struct {
	Remote struct {
		APIBase        string   `json:"api_base"`
		WebBase        string   `json:"web_base"`
		TenantID       string   `json:"tenant_id"`
		Token          string   `json:"token"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"remote,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AdminToken     string   `json:"admin_token"`
	} `json:"server,omitempty"`

	Webhook struct {
		Token            string `json:"token"`
		AdministrationID string `json:"administration_id"`
	} `json:"webhook,omitempty"`

	Workers struct {
		SyncSchedule string `json:"sync_schedule"`
		SyncOnStart  bool   `json:"sync_on_start"`
		RunOnce      bool   `json:"run_once"`
	} `json:"workers,omitempty"`

	Log struct {
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Remote: Remote{
			APIBase:        jsonCfg.Remote.APIBase,
			WebBase:        jsonCfg.Remote.WebBase,
			TenantID:       jsonCfg.Remote.TenantID,
			Token:          jsonCfg.Remote.Token,
			RequestTimeout: time.Duration(jsonCfg.Remote.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AdminToken:     jsonCfg.Server.AdminToken,
		},
		Webhook: Webhook{
			Token:            jsonCfg.Webhook.Token,
			AdministrationID: jsonCfg.Webhook.AdministrationID,
		},
		Workers: Workers{
			SyncSchedule: jsonCfg.Workers.SyncSchedule,
			SyncOnStart:  jsonCfg.Workers.SyncOnStart,
			RunOnce:      jsonCfg.Workers.RunOnce,
		},
		Log:          Log{Level: jsonCfg.Log.Level},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
