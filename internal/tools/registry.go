package tools

import (
	"fmt"
	"sort"

	"github.com/dileep-u-k/coach-gateway/internal/calc"
	"github.com/dileep-u-k/coach-gateway/internal/intent"
)

// Registry maps intent tags to tools. Build it once at startup; lookups are
// safe for concurrent use because nothing writes after registration.
type Registry struct {
	byTag  map[intent.Tag][]Tool
	byName map[string]Tool
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{
		byTag:  make(map[intent.Tag][]Tool),
		byName: make(map[string]Tool),
	}
}

// Register binds tool to tag. A tool may serve several tags but its name
// must be unique.
func (r *Registry) Register(tag intent.Tag, tool Tool) error {
	name := tool.Definition().Name
	if existing, ok := r.byName[name]; ok && existing != tool {
		return fmt.Errorf("tool %q already registered", name)
	}
	if _, ok := r.byName[name]; !ok {
		r.byName[name] = tool
		r.order = append(r.order, name)
	}
	r.byTag[tag] = append(r.byTag[tag], tool)
	return nil
}

// MustRegister is Register for static wiring.
func (r *Registry) MustRegister(tag intent.Tag, tool Tool) {
	if err := r.Register(tag, tool); err != nil {
		panic(err)
	}
}

// For returns the tools matching any of the tags, each at most once, in a
// stable order. Tags with no tool are skipped.
func (r *Registry) For(tags intent.TagSet) []Tool {
	seen := make(map[string]bool)
	var out []Tool
	for _, tag := range tags.Sorted() {
		for _, t := range r.byTag[tag] {
			name := t.Definition().Name
			if !seen[name] {
				seen[name] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// Lookup returns a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Definitions returns every registered definition sorted by name.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.byName))
	for _, name := range r.order {
		defs = append(defs, r.byName[name].Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Count returns the number of distinct tools.
func (r *Registry) Count() int {
	return len(r.byName)
}

// DefaultRegistry wires the built-in tools to their tags. The product lookup
// tool is registered only when catalog is non-nil.
func DefaultRegistry(catalog Catalog, opts calc.TargetOptions) *Registry {
	r := NewRegistry()
	r.MustRegister(intent.Arithmetic, NewArithmeticTool())
	r.MustRegister(intent.NutritionCalculation, NewNutritionTool(opts))
	r.MustRegister(intent.ProgramLookup, NewProgramTool())
	if catalog != nil {
		r.MustRegister(intent.ProductLookup, NewProductLookupTool(catalog))
	}
	return r
}
