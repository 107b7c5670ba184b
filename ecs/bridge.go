// Package ecs provides ECS adapters for cabinet.
package ecs

import (
	"github.com/phanxgames/cabinet"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InputEventType is the Donburi event type for cabinet input events.
// Subscribe to this in your ECS systems to receive control, mode, and touch
// events.
var InputEventType = events.NewEventType[cabinet.InputEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Input
// events are published to InputEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) cabinet.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitInputEvent(event cabinet.InputEvent) {
	InputEventType.Publish(s.world, event)
}
