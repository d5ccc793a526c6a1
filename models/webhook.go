package models

// WebhookEvent is a push notification from the remote system about a single
// resource change.
type WebhookEvent struct {
	AdministrationID RemoteID `json:"administration_id"`
	WebhookID        RemoteID `json:"webhook_id"`
	WebhookToken     string   `json:"webhook_token"`

	// Entity is the remote entity name, e.g. "Contact".
	Entity string `json:"entity_type"`

	// EntityID identifies the changed resource.
	EntityID RemoteID `json:"entity_id"`

	State string `json:"state,omitempty"`

	// Action is the event name, e.g. "contact_changed".
	Action string `json:"action"`

	// Payload is the resource's full remote payload; empty when the resource
	// no longer exists.
	Payload Payload `json:"entity,omitempty"`
}
