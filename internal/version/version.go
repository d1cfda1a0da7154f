// Package version tracks the versions of the components whose output ends up
// in a cached answer.
//
// Every response cache key carries these versions, so bumping one makes all
// older entries unreachable without touching the cache itself.
package version

import (
	"fmt"

	"github.com/dileep-u-k/coach-gateway/internal/cache"
)

// ComponentVersions must be bumped by hand when the matching component changes.
var ComponentVersions = struct {
	// Rules covers the intent rule table.
	Rules string
	// Tools covers the calculation engine and tool output shapes.
	Tools string
	// Tables covers the program meal tables and weekly cycles.
	Tables string
	// Knowledge covers the content of the knowledge base.
	Knowledge string
	// Prompt covers the assembler templates.
	Prompt string
}{
	Rules:     "v1.0",
	Tools:     "v1.0",
	Tables:    "v1.0",
	Knowledge: "v1.0",
	Prompt:    "v1.0",
}

// Stamp is a compact string naming every component version.
//
// Example: "rv1.0_tv1.0_dv1.0_kv1.0_pv1.0"
func Stamp() string {
	v := ComponentVersions
	return fmt.Sprintf("rv%s_tv%s_dv%s_kv%s_pv%s", v.Rules, v.Tools, v.Tables, v.Knowledge, v.Prompt)
}

// VersionedCacheKey hashes the parts under prefix and appends the current Stamp.
//
// Example output: "coach:resp:a1b2c3...:rv1.0_tv1.0_dv1.0_kv1.0_pv1.0"
func VersionedCacheKey(prefix string, parts ...string) string {
	return cache.Key(prefix, parts...) + ":" + Stamp()
}
