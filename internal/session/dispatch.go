// file: internal/session/dispatch.go
package session

import (
	"context"
	"encoding/json"

	"github.com/dkoosis/mcpsdk/internal/mcperror"
)

// RequestHandler processes one inbound request's params and returns the
// value to be marshalled into the response's result field.
type RequestHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// NotificationHandler processes one inbound notification. It returns
// nothing, so a notification never produces a response, per §4.4.3.
type NotificationHandler func(ctx context.Context, method string, params json.RawMessage)

// MethodTriggers maps a dispatch-table method name to the FSM event it
// should fire alongside normal handling, generalized from the teacher's
// methodToTriggerMap. Most methods trigger nothing; "initialize" is the
// only built-in entry because it is the one inbound method meaningful to
// the state machine itself.
var MethodTriggers = map[string]Event{
	"initialize": EventHandshakeComplete,
}

// dispatchTable is the closed set of method handlers a Session was built
// with. It is immutable after construction, per spec §4.4.6 ("build the
// closed set — do not mutate after session start").
type dispatchTable struct {
	requests      map[string]RequestHandler
	notifications map[string]NotificationHandler
}

func newDispatchTable() *dispatchTable {
	return &dispatchTable{
		requests:      make(map[string]RequestHandler),
		notifications: make(map[string]NotificationHandler),
	}
}

// registerRequest adds a request handler, failing construction on a
// duplicate method name per §4.4.6 ("Registration of the same method twice
// is an implementer-side error").
func (d *dispatchTable) registerRequest(method string, h RequestHandler) error {
	if _, exists := d.requests[method]; exists {
		return mcperror.NewNameCollisionError("duplicate request handler registration", map[string]interface{}{
			"method": method,
		})
	}
	d.requests[method] = h
	return nil
}

func (d *dispatchTable) registerNotification(method string, h NotificationHandler) error {
	if _, exists := d.notifications[method]; exists {
		return mcperror.NewNameCollisionError("duplicate notification handler registration", map[string]interface{}{
			"method": method,
		})
	}
	d.notifications[method] = h
	return nil
}

func (d *dispatchTable) request(method string) (RequestHandler, bool) {
	h, ok := d.requests[method]
	return h, ok
}

func (d *dispatchTable) notification(method string) (NotificationHandler, bool) {
	h, ok := d.notifications[method]
	return h, ok
}
