// Package pending implements the outstanding-call registry a Session uses
// to correlate inbound responses back to the outbound caller awaiting them.
// file: internal/pending/registry.go
package pending

import (
	"encoding/json"
	"hash/fnv"
	"sync"

	"github.com/dkoosis/mcpsdk/internal/mcperror"
	"github.com/dkoosis/mcpsdk/internal/mcptypes"
)

// Outcome is what a pending call resolves to: exactly one of Result or Err
// is set.
type Outcome struct {
	Result json.RawMessage
	Err    *mcptypes.ErrorObject
}

// Entry is the one-shot completion slot a caller awaits. It is resolved at
// most once, by Complete (directly or through Cancel) or FailAll.
type Entry struct {
	done chan Outcome
}

// Wait blocks until the entry is resolved. Callers typically select on this
// alongside a context or timer, per §4.4.4.
func (e *Entry) Wait() <-chan Outcome {
	return e.done
}

const shardCount = 16

type shard struct {
	mu      sync.Mutex
	entries map[mcptypes.RequestID]*Entry
}

// Registry is a sharded concurrent map from RequestId to Entry. Sharding by
// a hash of the id lets registrations and completions on different ids
// proceed without contending on a single lock, the way spec §4.3 requires
// ("must permit multiple concurrent registrations and completions without
// coarse-locking the whole map").
type Registry struct {
	shards [shardCount]*shard
}

// New creates an empty Registry.
func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{entries: make(map[mcptypes.RequestID]*Entry)}
	}
	return r
}

func (r *Registry) shardFor(id mcptypes.RequestID) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id.String()))
	return r.shards[h.Sum32()%shardCount]
}

// Register inserts an empty slot for id and returns its completion handle.
// Registering the same id twice replaces the earlier slot; callers are
// expected to guarantee id uniqueness per §8 ("issued outbound ids within
// one session are unique over the session's lifetime").
func (r *Registry) Register(id mcptypes.RequestID) *Entry {
	s := r.shardFor(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &Entry{done: make(chan Outcome, 1)}
	s.entries[id] = entry
	return entry
}

// Complete resolves and removes the slot for id. If no slot is registered,
// the response is late or unsolicited and is dropped; the caller reports
// that to the logger.
func (r *Registry) Complete(id mcptypes.RequestID, outcome Outcome) (delivered bool) {
	s := r.shardFor(id)
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	entry.done <- outcome
	return true
}

// Cancel resolves the slot for id locally with a cancellation error, without
// waiting for (and while still accepting, then discarding) a late response.
// Used for per-call timeouts and explicit cancellation per §4.4.4 step 5 and
// §5's cancellation semantics.
func (r *Registry) Cancel(id mcptypes.RequestID, reason string) (delivered bool) {
	errObj := mcperror.ToJSONRPCError(mcperror.NewCancelledError(reason, map[string]interface{}{
		"requestId": id.String(),
	}))
	return r.Complete(id, Outcome{Err: errObj})
}

// FailAll resolves every outstanding entry with err, used on session close
// per §4.4 lifecycle ("fails all pending entries with ConnectionClosed").
// After FailAll returns, the registry is empty.
func (r *Registry) FailAll(err *mcptypes.ErrorObject) {
	for _, s := range r.shards {
		s.mu.Lock()
		entries := s.entries
		s.entries = make(map[mcptypes.RequestID]*Entry)
		s.mu.Unlock()
		for _, entry := range entries {
			entry.done <- Outcome{Err: err}
		}
	}
}

// Len reports the total number of outstanding entries across all shards.
// Used by tests asserting the registry is empty once a session is Closed,
// per §8's invariant.
func (r *Registry) Len() int {
	total := 0
	for _, s := range r.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}
