// Package sessiongroup coordinates a keyed collection of sessions: adding
// and removing members, and fanning a single logical call out across all of
// them in parallel under one deadline. Generalized from the teacher's
// connection.Manager dataMu read-mostly-lock bookkeeping (one session's
// worth) into a collection of many, per spec §4.5.
// file: internal/sessiongroup/group.go
package sessiongroup

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dkoosis/mcpsdk/internal/logging"
	"github.com/dkoosis/mcpsdk/internal/mcperror"
	"github.com/dkoosis/mcpsdk/internal/mcptypes"
	"github.com/dkoosis/mcpsdk/internal/session"
)

// Separator joins a session name and a tool name into the prefixed name
// list_tools_all returns, per §4.5's naming rule.
const Separator = ":"

// CallerFunc is how the group issues a tools/call to one member session.
// session.Session.Call already has this shape; naming it lets a member be
// backed by a fake call function in tests.
type CallerFunc func(ctx context.Context, method string, params interface{}) (json.RawMessage, error)

// member is one named session plus the call entrypoint the group uses to
// reach it. Keeping CallerFunc separate from *session.Session lets tests
// substitute a fake without building a real transport.
type member struct {
	name string
	sess *session.Session
	call CallerFunc
}

// Group is a coordinator over named sessions. The zero value is not usable;
// construct with New. Group owns its members: Close drops and closes every
// session it holds, per §3's "dropping the group drops all Sessions."
type Group struct {
	mu              sync.RWMutex
	members         map[string]*member
	logger          logging.Logger
	aggregateDeadline time.Duration
}

// Options configures a Group. AggregateTimeout bounds how long a fan-out
// operation (list_tools_all, and any future aggregate) waits for the
// slowest member before giving up on the stragglers.
type Options struct {
	Logger           logging.Logger
	AggregateTimeout time.Duration
}

// New creates an empty Group.
func New(opts Options) *Group {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	timeout := opts.AggregateTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Group{
		members:           make(map[string]*member),
		logger:            logger,
		aggregateDeadline: timeout,
	}
}

// Add registers sess under name, failing if the name is already taken, per
// §4.5's "add(name, session): fails on duplicate name."
func (g *Group) Add(name string, sess *session.Session) error {
	return g.add(name, sess, sess.Call)
}

// add is Add's implementation, parameterized on the call entrypoint so
// tests can register a member backed by a fake session.
func (g *Group) add(name string, sess *session.Session, call CallerFunc) error {
	if strings.Contains(name, Separator) {
		return mcperror.NewNameCollisionError("session name must not contain the group separator", map[string]interface{}{
			"name": name, "separator": Separator,
		})
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.members[name]; exists {
		return mcperror.NewNameCollisionError("duplicate session name", map[string]interface{}{"name": name})
	}
	g.members[name] = &member{name: name, sess: sess, call: call}
	return nil
}

// Remove drops the named session from the group and closes it, failing any
// of its pending calls with ConnectionClosed, per §4.5's "remove(name):
// cancels all pending on that session, drops it." Removing an unknown name
// is a no-op.
func (g *Group) Remove(ctx context.Context, name string) {
	g.mu.Lock()
	m, ok := g.members[name]
	if ok {
		delete(g.members, name)
	}
	g.mu.Unlock()
	if !ok {
		return
	}
	if m.sess != nil {
		_ = m.sess.Close(ctx)
	}
}

// Names returns the currently registered session names.
func (g *Group) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.members))
	for name := range g.members {
		names = append(names, name)
	}
	return names
}

// Close removes and closes every member session.
func (g *Group) Close(ctx context.Context) {
	g.mu.Lock()
	members := g.members
	g.members = make(map[string]*member)
	g.mu.Unlock()
	for _, m := range members {
		if m.sess != nil {
			_ = m.sess.Close(ctx)
		}
	}
}

// snapshot copies the current member set under the read lock, so fan-out
// work runs without holding the lock across the suspension points in each
// member's Call, per spec §5 ("no operation holds a lock across a
// suspension point").
func (g *Group) snapshot() []*member {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*member, 0, len(g.members))
	for _, m := range g.members {
		out = append(out, m)
	}
	return out
}

// ToolEntry pairs a tool descriptor with the session it came from, tagged
// with the prefixed name a caller uses with CallTool.
type ToolEntry struct {
	PrefixedName string
	SessionName  string
	Tool         mcptypes.Tool
}

// ListToolsResult is the outcome of ListToolsAll: the merged, successfully
// retrieved tools plus a per-session record of any failure, since
// aggregation is best-effort per §4.5.
type ListToolsResult struct {
	Tools    []ToolEntry
	Failures map[string]error
}

// ListToolsAll fans tools/list out to every member session in parallel and
// merges the results under "{session}{Separator}{tool}" keys. Since session
// names cannot contain Separator, a collision under the same prefixed name
// means one session listed the same tool name twice; it is a NameCollision
// error that aborts the whole aggregation, since it signals a
// naming-scheme violation rather than a per-session failure.
func (g *Group) ListToolsAll(ctx context.Context) (*ListToolsResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.aggregateDeadline)
	defer cancel()

	members := g.snapshot()
	type listOutcome struct {
		name  string
		tools []mcptypes.Tool
		err   error
	}
	outcomes := make([]listOutcome, len(members))

	var eg errgroup.Group
	for i, m := range members {
		i, m := i, m
		eg.Go(func() error {
			raw, err := m.call(ctx, "tools/list", mcptypes.ListToolsRequest{})
			if err != nil {
				outcomes[i] = listOutcome{name: m.name, err: err}
				return nil // best-effort: don't abort siblings.
			}
			var result mcptypes.ListToolsResult
			if jsonErr := json.Unmarshal(raw, &result); jsonErr != nil {
				outcomes[i] = listOutcome{name: m.name, err: jsonErr}
				return nil
			}
			outcomes[i] = listOutcome{name: m.name, tools: result.Tools}
			return nil
		})
	}
	_ = eg.Wait() // collector goroutines never return a non-nil error themselves.

	merged := &ListToolsResult{Failures: make(map[string]error)}
	seen := make(map[string]struct{})
	for _, o := range outcomes {
		if o.err != nil {
			merged.Failures[o.name] = o.err
			g.logger.Warn("Member session failed tools/list during aggregation.", "session", o.name, "error", o.err)
			continue
		}
		for _, tool := range o.tools {
			prefixed := o.name + Separator + tool.Name
			if _, dup := seen[prefixed]; dup {
				return nil, mcperror.NewNameCollisionError("duplicate prefixed tool name", map[string]interface{}{
					"prefixedName": prefixed,
				})
			}
			seen[prefixed] = struct{}{}
			merged.Tools = append(merged.Tools, ToolEntry{PrefixedName: prefixed, SessionName: o.name, Tool: tool})
		}
	}
	return merged, nil
}

// CallTool parses prefixedName into its session and tool components and
// forwards the call to that member, per §4.5's "call_tool(prefixed_name,
// args): parses the prefix to locate the session, forwards the call."
func (g *Group) CallTool(ctx context.Context, prefixedName string, arguments map[string]any) (*mcptypes.CallToolResult, error) {
	sessionName, toolName, ok := strings.Cut(prefixedName, Separator)
	if !ok {
		return nil, mcperror.NewInvalidArgumentsError("prefixed tool name missing separator", map[string]interface{}{
			"prefixedName": prefixedName, "separator": Separator,
		})
	}

	g.mu.RLock()
	m, exists := g.members[sessionName]
	g.mu.RUnlock()
	if !exists {
		return nil, mcperror.NewToolError("no such session in group", nil, map[string]interface{}{
			"session": sessionName, "prefixedName": prefixedName,
		})
	}

	raw, err := m.call(ctx, "tools/call", mcptypes.CallToolRequest{Name: toolName, Arguments: arguments})
	if err != nil {
		return nil, err
	}
	var result mcptypes.CallToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, mcperror.ErrorWithDetails(err, mcperror.CategoryGroup, mcperror.CodeInternalError, map[string]interface{}{
			"prefixedName": prefixedName,
		})
	}
	return &result, nil
}
