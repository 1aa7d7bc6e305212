package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// NodeEvent is a copy of a canopy node event. Positions are in the node's
// own coordinates at the time it fired.
type NodeEvent struct {
	Type     canopy.EventType
	Node     canopy.Handle
	Name     string
	Entity   donburi.Entity // donburi.Null when the node is not bound
	X, Y     float64
	Button   canopy.MouseButton
	Key      canopy.KeyCode
	Modifier canopy.KeyModifiers
}

// NodeEventType is the Donburi event type NodeEvents are published on.
var NodeEventType = events.NewEventType[NodeEvent]()

// NodeComponent stores the handle of the node an entity is bound to.
var NodeComponent = donburi.NewComponentType[canopy.Handle]()

// Bridge publishes node events into a Donburi world.
type Bridge struct {
	world donburi.World
	conns []canopy.Connection
}

// NewBridge returns a bridge publishing into world.
func NewBridge(world donburi.World) *Bridge {
	return &Bridge{world: world}
}

// Watch publishes n's events of the listed types. The bridge only observes;
// it never changes an event's result.
func (b *Bridge) Watch(n *canopy.Node, types ...canopy.EventType) {
	b.watch(n, donburi.Null, types)
}

// Bind ties entity to n: the entity's NodeComponent, when it has one,
// receives n's handle, and n's events of the listed types are published
// carrying the entity.
func (b *Bridge) Bind(entity donburi.Entity, n *canopy.Node, types ...canopy.EventType) {
	if b.world.Valid(entity) {
		if entry := b.world.Entry(entity); entry.HasComponent(NodeComponent) {
			NodeComponent.SetValue(entry, n.Handle())
		}
	}
	b.watch(n, entity, types)
}

func (b *Bridge) watch(n *canopy.Node, entity donburi.Entity, types []canopy.EventType) {
	if n == nil {
		return
	}
	for _, t := range types {
		b.conns = append(b.conns, n.Connect(t, func(ctx *canopy.EventContext) {
			b.publish(ctx, entity)
		}))
	}
}

func (b *Bridge) publish(ctx *canopy.EventContext, entity donburi.Entity) {
	ev := NodeEvent{Type: ctx.Event.Type(), Entity: entity}
	if n := ctx.Source; n != nil {
		ev.Node, ev.Name = n.Handle(), n.Name()
	}
	if p, ok := ctx.Event.(canopy.Positional); ok {
		ev.X, ev.Y = p.Position()
	}
	switch e := ctx.Event.(type) {
	case canopy.MouseEvent:
		ev.Button, ev.Modifier = e.Button, e.Modifier
	case canopy.KeyboardEvent:
		ev.Key, ev.Modifier = e.KeyCode, e.Modifier
	}
	NodeEventType.Publish(b.world, ev)
}

// Close disconnects every watch.
func (b *Bridge) Close() {
	for _, c := range b.conns {
		c.Disconnect()
	}
	b.conns = nil
}

// NodeOf returns the node entity is bound to, or nil when it has none or
// the node is gone.
func NodeOf(s *canopy.Surface, world donburi.World, entity donburi.Entity) *canopy.Node {
	if !world.Valid(entity) {
		return nil
	}
	entry := world.Entry(entity)
	if !entry.HasComponent(NodeComponent) {
		return nil
	}
	return s.Lookup(*NodeComponent.Get(entry))
}
