package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from the process arguments.
//
// Flags:
//
//	-a webhook server address in format [host]:[port]
//	-driver storage driver (postgres, sqlite, memory)
//	-d database DSN
//	-c/-config json file path with configs
//	-api-base remote API root
//	-web-base remote web root for public URLs
//	-tenant remote administration id
//	-token remote API bearer token
//	-request-timeout outbound request timeout (e.g., "30s", "1m")
//	-webhook-token expected webhook token
//	-schedule cron schedule of synchronization runs
//	-once run one synchronization and exit
//	-log-level zerolog level name
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(os.Args[1:])
}

func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("syncer", flag.ContinueOnError)

	var serverAddress NetAddress
	var driver, databaseDSN string
	var jsonConfigPath string
	var apiBase, webBase, tenantID, token string
	var requestTimeout time.Duration
	var webhookToken string
	var schedule string
	var once bool
	var logLevel string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&driver, "driver", "", "Storage driver (postgres, sqlite, memory)")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&apiBase, "api-base", "", "Remote API root")
	fs.StringVar(&webBase, "web-base", "", "Remote web root")
	fs.StringVar(&tenantID, "tenant", "", "Remote administration id")
	fs.StringVar(&token, "token", "", "Remote API token")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&webhookToken, "webhook-token", "", "Expected webhook token")
	fs.StringVar(&schedule, "schedule", "", "Cron schedule of synchronization runs")
	fs.BoolVar(&once, "once", false, "Run one synchronization and exit")
	fs.StringVar(&logLevel, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Remote: Remote{
			APIBase:        apiBase,
			WebBase:        webBase,
			TenantID:       tenantID,
			Token:          token,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				Driver: driver,
				DSN:    databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
		},
		Webhook: Webhook{
			Token: webhookToken,
		},
		Workers: Workers{
			SyncSchedule: schedule,
			RunOnce:      once,
		},
		Log:          Log{Level: logLevel},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
