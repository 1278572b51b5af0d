package github

import (
	"fmt"

	"go.uber.org/zap"
)

// Event is a validated github webhook event.
type Event struct {
	DeliveryID string
	// Type is the value of the X-GitHub-Event header, e.g. "workflow_run".
	Type string
	// Action is the value of the "action" field of the payload, it is
	// empty if the payload does not have one.
	Action string
	// JSON is the raw payload.
	JSON []byte
	// Event is the payload parsed by github.ParseWebHook().
	Event     any
	LogFields []zap.Field
}

func (e *Event) String() string {
	if e.Action == "" {
		return fmt.Sprintf("%s (deliveryID: %s)", e.Type, e.DeliveryID)
	}

	return fmt.Sprintf("%s/%s (deliveryID: %s)", e.Type, e.Action, e.DeliveryID)
}
