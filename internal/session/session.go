// Package session implements one bidirectional MCP connection: the
// handshake, the inbound read loop, outbound call correlation, and the
// state machine governing which messages are legal at a given point in the
// connection's life. Both roles (the side that opens with "initialize" and
// the side that answers it) are represented by the same Session type,
// generalized from the teacher's connection manager.
// file: internal/session/session.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dkoosis/mcpsdk/internal/config"
	"github.com/dkoosis/mcpsdk/internal/fsm"
	"github.com/dkoosis/mcpsdk/internal/jsonrpc"
	"github.com/dkoosis/mcpsdk/internal/logging"
	"github.com/dkoosis/mcpsdk/internal/mcperror"
	"github.com/dkoosis/mcpsdk/internal/mcptypes"
	"github.com/dkoosis/mcpsdk/internal/pending"
	"github.com/dkoosis/mcpsdk/internal/transport"
	"github.com/dkoosis/mcpsdk/pkg/util/stringutil"
)

// logPreviewLen bounds how much of a raw frame a dropped/unparsable-message
// warning logs, so one oversized payload can't blow up log output.
const logPreviewLen = 200

// State and Event alias the generic FSM's types so callers outside this
// package never need to import internal/fsm directly.
type (
	State = fsm.State
	Event = fsm.Event
)

// The five states a Session moves through over its life, per spec §4.4.5.
const (
	StateConnecting   State = "connecting"
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateClosing      State = "closing"
	StateClosed       State = "closed"
)

// The events that drive StateConnecting through StateClosed.
const (
	EventBeginHandshake    Event = "begin_handshake"
	EventHandshakeComplete Event = "handshake_complete"
	EventFail              Event = "fail"
	EventClose             Event = "close"
	EventClosed            Event = "closed"
)

// Role distinguishes the side of the handshake a Session plays: Initiator
// sends "initialize" first, Responder answers it.
type Role int

const (
	RoleInitiator Role = iota
	RoleResponder
)

// maxPreReadyStrikes bounds how many non-"initialize" requests a responder
// tolerates before Ready, per §4.4.2's "reply with error and await again (N
// retries then close)".
const maxPreReadyStrikes = 3

// Options configures a new Session. Transport and Config are required;
// everything else defaults to a usable zero value.
type Options struct {
	Role                 Role
	Transport            transport.Transport
	Config               *config.Config
	Logger               logging.Logger
	LocalInfo            mcptypes.Implementation
	Capabilities         mcptypes.Capabilities
	RequestHandlers      map[string]RequestHandler
	NotificationHandlers map[string]NotificationHandler
}

// Session is one live, bidirectional MCP connection. Exported methods are
// safe for concurrent use.
type Session struct {
	id        string
	role      Role
	cfg       *config.Config
	transport transport.Transport
	logger    logging.Logger
	pending   *pending.Registry
	machine   fsm.FSM
	dispatch  *dispatchTable

	localInfo    mcptypes.Implementation
	capabilities mcptypes.Capabilities

	writeMu sync.Mutex
	nextID  atomic.Int64

	readDone chan struct{}
	closeMu  sync.Mutex
	closeErr error

	negotiatedMu sync.RWMutex
	negotiated   string
	peerInfo     mcptypes.Implementation

	preReadyStrikes atomic.Int32
}

// New builds a Session in StateConnecting. It fails construction if two
// handlers are registered under the same method name, per §4.4.6.
func New(opts Options) (*Session, error) {
	if opts.Transport == nil {
		return nil, errors.New("session: Transport is required")
	}
	if opts.Config == nil {
		opts.Config = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetNoopLogger()
	}

	table := newDispatchTable()
	for method, h := range opts.RequestHandlers {
		if err := table.registerRequest(method, h); err != nil {
			return nil, err
		}
	}
	for method, h := range opts.NotificationHandlers {
		if err := table.registerNotification(method, h); err != nil {
			return nil, err
		}
	}

	s := &Session{
		id:           uuid.NewString(),
		role:         opts.Role,
		cfg:          opts.Config,
		transport:    opts.Transport,
		logger:       logger,
		pending:      pending.New(),
		dispatch:     table,
		localInfo:    opts.LocalInfo,
		capabilities: opts.Capabilities,
		readDone:     make(chan struct{}),
	}
	s.logger = logger.WithField("session_id", s.id)

	if err := s.buildMachine(); err != nil {
		return nil, err
	}

	// "initialize" is reserved: the responder side always answers it itself
	// per §4.4.2, so a caller-supplied handler under that name is rejected
	// as a collision rather than silently shadowed.
	if err := table.registerRequest("initialize", s.handleInitializeRequest); err != nil {
		return nil, err
	}
	return s, nil
}

// handleInitializeRequest is the responder's built-in answer to the
// initiator's "initialize" call (§4.4.2): negotiate a protocol version,
// record the peer's Implementation, and describe the responder's own.
func (s *Session) handleInitializeRequest(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req mcptypes.InitializeRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, mcperror.NewInvalidArgumentsError("malformed initialize params", map[string]interface{}{"cause": err.Error()})
	}

	chosen, ok := s.cfg.BestProtocolVersion([]string{req.ProtocolVersion})
	if !ok {
		return nil, mcperror.NewProtocolMismatchError("no shared protocol version", map[string]interface{}{
			"offered": req.ProtocolVersion, "supported": s.cfg.SupportedProtocolVersions,
		})
	}

	s.negotiatedMu.Lock()
	s.negotiated = chosen
	s.peerInfo = req.ClientInfo
	s.negotiatedMu.Unlock()

	return mcptypes.InitializeResult{
		ProtocolVersion: chosen,
		ServerInfo:      s.localInfo,
		Capabilities:    s.capabilities,
	}, nil
}

// buildMachine wires the five-state lifecycle described in §4.4.5. Actions
// are deliberately empty: state transitions here are bookkeeping, not a
// place to run side effects that belong in the handshake/read-loop code.
func (s *Session) buildMachine() error {
	m := fsm.NewFSM(StateConnecting, s.logger)
	m.AddTransition(fsm.Transition{From: []State{StateConnecting}, To: StateInitializing, Event: EventBeginHandshake})
	m.AddTransition(fsm.Transition{From: []State{StateInitializing}, To: StateReady, Event: EventHandshakeComplete})
	m.AddTransition(fsm.Transition{From: []State{StateConnecting, StateInitializing, StateReady}, To: StateClosing, Event: EventFail})
	m.AddTransition(fsm.Transition{From: []State{StateConnecting, StateInitializing, StateReady}, To: StateClosing, Event: EventClose})
	m.AddTransition(fsm.Transition{From: []State{StateClosing}, To: StateClosed, Event: EventClosed})
	if err := m.Build(); err != nil {
		return errors.Wrap(err, "session: building state machine")
	}
	s.machine = m
	return nil
}

// ID returns the session's opaque identifier, unique for its lifetime.
func (s *Session) ID() string { return s.id }

// State reports the session's current lifecycle state.
func (s *Session) State() State { return s.machine.CurrentState() }

// NegotiatedVersion returns the protocol version agreed on during the
// handshake. It is empty until the handshake completes.
func (s *Session) NegotiatedVersion() string {
	s.negotiatedMu.RLock()
	defer s.negotiatedMu.RUnlock()
	return s.negotiated
}

// PeerInfo returns the remote Implementation exchanged during handshake.
func (s *Session) PeerInfo() mcptypes.Implementation {
	s.negotiatedMu.RLock()
	defer s.negotiatedMu.RUnlock()
	return s.peerInfo
}

// writeEnvelope serializes and writes one frame, serialized against
// concurrent writers the way §4.1 requires ("one full frame at a time").
func (s *Session) writeEnvelope(ctx context.Context, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.transport.WriteMessage(ctx, data)
}

// allocateID hands out the next outbound request id. Per §8's Open Question
// resolution, the first id issued by a session is 0 and subsequent ids
// increment by one.
func (s *Session) allocateID() mcptypes.RequestID {
	n := s.nextID.Add(1) - 1
	return mcptypes.NewNumberID(n)
}

// Start launches the background read loop. It must be called exactly once.
// For RoleInitiator, call Initiate after Start to run the handshake; for
// RoleResponder, the handshake completes automatically the first time an
// "initialize" request arrives on the read loop.
func (s *Session) Start(ctx context.Context) error {
	if err := s.machine.Transition(ctx, EventBeginHandshake, nil); err != nil {
		return errors.Wrap(err, "session: entering initializing state")
	}
	go s.readLoop(ctx)
	return nil
}

// Initiate runs the initiator side of the handshake (§4.4.1): send
// "initialize", await the response within HandshakeTimeout, validate the
// negotiated version, then emit "notifications/initialized".
func (s *Session) Initiate(ctx context.Context, req mcptypes.InitializeRequest) (*mcptypes.InitializeResult, error) {
	if s.role != RoleInitiator {
		return nil, errors.New("session: Initiate called on a responder session")
	}

	hctx, cancel := context.WithTimeout(ctx, s.cfg.HandshakeTimeout)
	defer cancel()

	params, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "session: marshalling initialize params")
	}
	raw, err := s.call(hctx, "initialize", params)
	if err != nil {
		s.fail(ctx, mcperror.NewProtocolMismatchError("handshake failed", map[string]interface{}{"cause": err.Error()}))
		return nil, err
	}

	var result mcptypes.InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		s.fail(ctx, mcperror.NewProtocolMismatchError("malformed initialize result", nil))
		return nil, errors.Wrap(err, "session: decoding initialize result")
	}
	if !s.supportsVersion(result.ProtocolVersion) {
		err := mcperror.NewProtocolMismatchError("responder chose an unsupported protocol version", map[string]interface{}{
			"offered": req.ProtocolVersion, "chosen": result.ProtocolVersion,
		})
		s.fail(ctx, err)
		return nil, err
	}

	s.negotiatedMu.Lock()
	s.negotiated = result.ProtocolVersion
	s.peerInfo = result.ServerInfo
	s.negotiatedMu.Unlock()

	if err := s.machine.Transition(ctx, EventHandshakeComplete, nil); err != nil {
		return nil, errors.Wrap(err, "session: completing handshake")
	}

	notif, err := jsonrpc.EncodeNotification(jsonrpc.Notification{Method: "notifications/initialized"})
	if err != nil {
		return nil, errors.Wrap(err, "session: encoding initialized notification")
	}
	if err := s.writeEnvelope(ctx, notif); err != nil {
		return nil, errors.Wrap(err, "session: sending initialized notification")
	}

	return &result, nil
}

func (s *Session) supportsVersion(v string) bool {
	for _, sv := range s.cfg.SupportedProtocolVersions {
		if sv == v {
			return true
		}
	}
	return false
}

// Call issues an outbound request and blocks until it resolves, the
// connection fails, ctx is cancelled, or the configured call timeout
// elapses, per §4.4.4. On timeout it emits "notifications/cancelled" and
// resolves locally; a response arriving afterward is accepted and dropped.
func (s *Session) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrap(err, "session: marshalling call params")
	}
	cctx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.cfg.CallTimeout)
		defer cancel()
	}
	return s.call(cctx, method, raw)
}

func (s *Session) call(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	id := s.allocateID()
	entry := s.pending.Register(id)

	wire, err := jsonrpc.EncodeRequest(jsonrpc.Request{ID: id, Method: method, Params: params})
	if err != nil {
		s.pending.Complete(id, pending.Outcome{})
		return nil, errors.Wrap(err, "session: encoding request")
	}
	if err := s.writeEnvelope(ctx, wire); err != nil {
		s.pending.Complete(id, pending.Outcome{})
		return nil, errors.Wrap(err, "session: writing request")
	}

	select {
	case outcome := <-entry.Wait():
		return outcome.Result, outcomeErr(outcome)
	case <-ctx.Done():
		timeoutErr := mcperror.ToJSONRPCError(mcperror.NewTimeoutError(
			fmt.Sprintf("call to %q did not complete in time", method),
			map[string]interface{}{"requestId": id.String(), "method": method},
		))
		if s.pending.Complete(id, pending.Outcome{Err: timeoutErr}) {
			s.sendCancelled(context.Background(), id, "timeout")
			return nil, timeoutErr
		}
		// Lost the race: a real response landed between ctx firing and our
		// claim attempt. Honor it instead of the timeout.
		outcome := <-entry.Wait()
		return outcome.Result, outcomeErr(outcome)
	}
}

func outcomeErr(o pending.Outcome) error {
	if o.Err != nil {
		return o.Err
	}
	return nil
}

func (s *Session) sendCancelled(ctx context.Context, id mcptypes.RequestID, reason string) {
	params, err := json.Marshal(mcptypes.CancelledParams{RequestID: id, Reason: reason})
	if err != nil {
		s.logger.Warn("Failed to encode cancelled params.", "error", err)
		return
	}
	wire, err := jsonrpc.EncodeNotification(jsonrpc.Notification{Method: "notifications/cancelled", Params: params})
	if err != nil {
		s.logger.Warn("Failed to encode cancelled notification.", "error", err)
		return
	}
	if err := s.writeEnvelope(ctx, wire); err != nil {
		s.logger.Warn("Failed to send cancelled notification.", "error", err)
	}
}

// readLoop is the single reader per §4.4.3: it classifies each frame and
// dispatches it, running request/notification handlers concurrently so one
// slow handler can't stall correlation of unrelated responses.
func (s *Session) readLoop(ctx context.Context) {
	defer close(s.readDone)
	for {
		data, err := s.transport.ReadMessage(ctx)
		if err != nil {
			s.fail(ctx, mcperror.NewConnectionClosedError("transport read failed", map[string]interface{}{"cause": err.Error()}))
			return
		}
		s.handleFrame(ctx, data)
		if s.State() == StateClosed {
			return
		}
	}
}

func (s *Session) handleFrame(ctx context.Context, data []byte) {
	msg, kind, err := jsonrpc.Parse(data)
	if err != nil {
		id, ok := jsonrpc.PeekID(data)
		if msg != nil && msg.ID != nil {
			id, ok = *msg.ID, true
		}
		if ok {
			s.replyError(ctx, id, mcperror.ToJSONRPCError(mcperror.NewInvalidArgumentsError(
				"malformed message", map[string]interface{}{"cause": err.Error()},
			)))
		}
		s.logger.Warn("Dropping unparsable frame.", "error", err, "preview", stringutil.TruncateString(string(data), logPreviewLen))
		return
	}

	switch kind {
	case jsonrpc.KindResponse:
		resp, _ := msg.AsResponse()
		s.handleResponse(resp)
	case jsonrpc.KindNotification:
		notif, _ := msg.AsNotification()
		go s.handleNotification(ctx, notif)
	case jsonrpc.KindRequest:
		req, _ := msg.AsRequest()
		go s.handleRequest(ctx, req)
	default:
		s.logger.Warn("Dropping frame of indeterminate kind.")
	}
}

// handleResponse completes the pending call awaiting id, per §4.3/§8: a
// response whose id has no pending entry (already resolved by timeout, or
// never issued) is logged and dropped.
func (s *Session) handleResponse(resp jsonrpc.Response) {
	if !s.pending.Complete(resp.ID, pending.Outcome{Result: resp.Result, Err: resp.Err}) {
		s.logger.Warn("Dropping response with no matching pending call.", "requestId", resp.ID.String())
	}
}

func (s *Session) handleNotification(ctx context.Context, n jsonrpc.Notification) {
	h, ok := s.dispatch.notification(n.Method)
	if !ok {
		s.logger.Debug("No handler for inbound notification; ignoring.", "method", n.Method)
		return
	}
	h(ctx, n.Method, n.Params)
}

// handleRequest enforces the pre-Ready gate from §4.4.7 ("request received
// before Ready -> -32002, except initialize"), then dispatches to the
// registered handler, recovering a handler panic into a -32603 response
// rather than letting it take down the read loop.
func (s *Session) handleRequest(ctx context.Context, req jsonrpc.Request) {
	if req.Method != "initialize" && s.State() != StateReady {
		s.replyError(ctx, req.ID, mcperror.ToJSONRPCError(mcperror.NewNotInitializedError(
			"session is not ready", map[string]interface{}{"method": req.Method},
		)))
		if strikes := s.preReadyStrikes.Add(1); strikes >= maxPreReadyStrikes {
			s.fail(ctx, mcperror.NewNotInitializedError("too many requests before handshake completed", nil))
		}
		return
	}

	h, ok := s.dispatch.request(req.Method)
	if !ok {
		s.replyError(ctx, req.ID, mcperror.ToJSONRPCError(mcperror.NewMethodNotFoundError(req.Method, nil)))
		return
	}

	result, err := s.invoke(ctx, h, req.Params)
	if err != nil {
		s.replyError(ctx, req.ID, mcperror.ToJSONRPCError(err))
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		s.replyError(ctx, req.ID, mcperror.ToJSONRPCError(mcperror.ErrorWithDetails(
			err, mcperror.CategoryRPC, mcperror.CodeInternalError, nil,
		)))
		return
	}
	s.replyResult(ctx, req.ID, raw)

	if trigger, ok := MethodTriggers[req.Method]; ok {
		if err := s.machine.Transition(ctx, trigger, nil); err != nil {
			s.logger.Warn("Method trigger transition rejected.", "method", req.Method, "event", trigger, "error", err)
		}
	}
}

// invoke runs a request handler, converting a panic into an internal-error
// result per §4.4.7 ("handler panics -> -32603, connection survives").
func (s *Session) invoke(ctx context.Context, h RequestHandler, params json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Request handler panicked.", "recovered", r)
			err = mcperror.ErrorWithDetails(
				errors.Newf("handler panic: %v", r), mcperror.CategoryRPC, mcperror.CodeInternalError, nil,
			)
		}
	}()
	return h(ctx, params)
}

func (s *Session) replyResult(ctx context.Context, id mcptypes.RequestID, result json.RawMessage) {
	wire, err := jsonrpc.EncodeResult(id, result)
	if err != nil {
		s.logger.Error("Failed to encode result response.", "error", err)
		return
	}
	if err := s.writeEnvelope(ctx, wire); err != nil {
		s.logger.Warn("Failed to write result response.", "error", err)
	}
}

func (s *Session) replyError(ctx context.Context, id mcptypes.RequestID, errObj *mcptypes.ErrorObject) {
	wire, err := jsonrpc.EncodeError(id, errObj)
	if err != nil {
		s.logger.Error("Failed to encode error response.", "error", err)
		return
	}
	if err := s.writeEnvelope(ctx, wire); err != nil {
		s.logger.Warn("Failed to write error response.", "error", err)
	}
}

// fail transitions the session toward Closed and fails every pending call,
// the way §4.4's lifecycle section requires on any fatal error.
func (s *Session) fail(ctx context.Context, cause error) {
	s.closeMu.Lock()
	if s.closeErr != nil {
		s.closeMu.Unlock()
		return
	}
	s.closeErr = cause
	s.closeMu.Unlock()

	s.logger.Warn("Session failing.", "error", cause)
	errObj := mcperror.ToJSONRPCError(cause)
	s.pending.FailAll(errObj)

	if s.State() != StateClosing && s.State() != StateClosed {
		_ = s.machine.Transition(ctx, EventFail, nil)
	}
	_ = s.transport.Close()
	if s.State() == StateClosing {
		_ = s.machine.Transition(ctx, EventClosed, nil)
	}
}

// Close gracefully shuts the session down: it transitions to Closing/Closed
// and fails any outstanding pending calls with ConnectionClosed, per §4.4's
// lifecycle. It is safe to call more than once and from any goroutine.
func (s *Session) Close(ctx context.Context) error {
	s.fail(ctx, mcperror.NewConnectionClosedError("session closed", nil))
	select {
	case <-s.readDone:
	case <-time.After(5 * time.Second):
		s.logger.Warn("Timed out waiting for read loop to exit during Close.")
	}
	return nil
}

// Done returns a channel closed once the read loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.readDone
}
