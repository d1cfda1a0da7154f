// Package orchestrator runs the tools that apply to a request in parallel and
// collects their outcomes into a Bundle.
package orchestrator

import (
	"sort"
	"time"

	"github.com/dileep-u-k/coach-gateway/internal/intent"
)

// Status is the outcome of one tool.
type Status string

const (
	StatusOK          Status = "ok"          // ran and returned data
	StatusEmpty       Status = "empty"       // ran, nothing to contribute
	StatusFailed      Status = "failed"      // returned an error or panicked
	StatusUnavailable Status = "unavailable" // external service timed out
)

// Slot is one tool's entry in the bundle. Data is set only when Present.
type Slot struct {
	Tool     string        `json:"tool"`
	Present  bool          `json:"present"`
	Data     any           `json:"data,omitempty"`
	Error    string        `json:"error,omitempty"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
}

// Bundle is the result of one orchestration pass. ToolsUsed lists the tools
// that executed and returned data, in the order they completed.
type Bundle struct {
	RequestID string          `json:"request_id"`
	Tags      intent.TagSet   `json:"tags"`
	Slots     map[string]Slot `json:"slots"`
	ToolsUsed []string        `json:"tools_used"`
}

// Slot returns a tool's entry.
func (b Bundle) Slot(name string) (Slot, bool) {
	s, ok := b.Slots[name]
	return s, ok
}

// SlotNames returns the slot keys in lexical order.
func (b Bundle) SlotNames() []string {
	names := make([]string, 0, len(b.Slots))
	for name := range b.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Used reports whether a tool is in ToolsUsed.
func (b Bundle) Used(name string) bool {
	for _, n := range b.ToolsUsed {
		if n == name {
			return true
		}
	}
	return false
}
