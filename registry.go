package canopy

import "sort"

// Factory creates the behavior for a new node of some kind.
type Factory func() Behavior

type registryEntry struct {
	create       Factory
	withChildren bool
}

// Registry maps kind tags to behavior factories for Container.AppendNew.
type Registry struct {
	m map[string]registryEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[string]registryEntry)}
}

// DefaultRegistry is used by surfaces created without a registry. It knows
// the "div" kind.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("div", true, func() Behavior { return &Div{} })
	return r
}

// Register adds a kind. withChildren gives its nodes a child container.
// It returns false if tag is empty, f is nil, or tag is already taken.
func (r *Registry) Register(tag string, withChildren bool, f Factory) bool {
	if tag == "" || f == nil {
		return false
	}
	if _, ok := r.m[tag]; ok {
		return false
	}
	r.m[tag] = registryEntry{create: f, withChildren: withChildren}
	return true
}

func (r *Registry) lookup(tag string) (registryEntry, bool) {
	e, ok := r.m[tag]
	return e, ok
}

// Tags returns the registered kinds in sorted order.
func (r *Registry) Tags() []string {
	out := make([]string, 0, len(r.m))
	for t := range r.m {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Div is a plain container kind with an optional background fill. Call the
// node's QueueDraw after changing its fields.
type Div struct {
	BaseBehavior
	Background Color
	TabStop    bool
}

func (d *Div) DoDraw(n *Node, c Canvas) {
	if d.Background.A > 0 {
		c.DrawFilledRect(0, 0, n.width, n.height, d.Background)
	}
	n.DrawChildren(c)
}

func (d *Div) HasOpaqueBackground(*Node) bool { return d.Background.A >= 1 }

func (d *Div) IsTabStopDefault(*Node) bool { return d.TabStop }
