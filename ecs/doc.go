// Package ecs bridges canopy node events into a [Donburi] world.
//
// A [Bridge] connects to the events of chosen nodes and publishes each one
// as a [NodeEvent] on [NodeEventType]. ECS systems subscribe to that type
// and drain it with ProcessEvents, so UI input reaches game logic on the
// world's own schedule instead of inside canopy's dispatch.
//
// Usage:
//
//	bridge := ecs.NewBridge(world)
//	bridge.Watch(button, canopy.EventMouseClick)
//	ecs.NodeEventType.Subscribe(world, onClick)
//	// each tick:
//	ecs.NodeEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
