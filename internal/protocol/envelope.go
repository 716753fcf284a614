package protocol

import (
	"encoding/json"
	"fmt"
)

// Actions understood on the client↔worker connection. Responses reuse the
// action of the request they answer, so a pushed notification (another
// session's successful mutation) is indistinguishable from a direct
// response, which is exactly what keeps multi-device views converging.
const (
	ActionLogin         = "login"
	ActionLogout        = "logout"
	ActionCreateAccount = "createAccount"
	ActionAddWord       = "addWord"
	ActionAddWords      = "addWords"
	ActionRemoveWord    = "removeWord"
	ActionGetWords      = "getWords"
)

// Actions understood on the worker↔master connection.
const (
	ActionAddWordRelay        = "addWordRelay"
	ActionRemoveWordRelay     = "removeWordRelay"
	ActionAddWordRelayEcho    = "addWordRelayEcho"
	ActionRemoveWordRelayEcho = "removeWordRelayEcho"
)

// Envelope is the wire frame: a named action plus its JSON payload.
type Envelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope wraps v as the payload of an envelope with the given action.
func NewEnvelope(action string, v any) (Envelope, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", action, err)
	}
	return Envelope{Action: action, Data: data}, nil
}

// Decode unmarshals the envelope payload into v.
func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("decode %s: empty payload", e.Action)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", e.Action, err)
	}
	return nil
}
