package canopy

// EventType identifies a kind of event.
type EventType uint8

const (
	EventNone EventType = iota

	EventMouseDown
	EventMouseUp
	EventMouseClick
	EventMouseDblClick
	EventMouseRClick
	EventMouseRDblClick
	EventMouseMove
	EventMouseOut
	EventMouseOver
	EventMouseWheel

	EventKeyDown
	EventKeyUp
	EventKeyPress

	EventDragDrop
	EventDragOut
	EventDragOver
	EventDragMotion

	EventFocusIn
	EventFocusOut

	EventSize
	EventSizing
	EventTimer

	EventOK
	EventCancel
	EventClose
	EventOpen
	EventDock
	EventUndock
	EventPopIn
	EventPopOut
	EventMinimize
	EventRestore

	eventTypeCount
)

var eventNames = [...]string{
	EventNone:           "none",
	EventMouseDown:      "mousedown",
	EventMouseUp:        "mouseup",
	EventMouseClick:     "click",
	EventMouseDblClick:  "dblclick",
	EventMouseRClick:    "rclick",
	EventMouseRDblClick: "rdblclick",
	EventMouseMove:      "mousemove",
	EventMouseOut:       "mouseout",
	EventMouseOver:      "mouseover",
	EventMouseWheel:     "mousewheel",
	EventKeyDown:        "keydown",
	EventKeyUp:          "keyup",
	EventKeyPress:       "keypress",
	EventDragDrop:       "dragdrop",
	EventDragOut:        "dragout",
	EventDragOver:       "dragover",
	EventDragMotion:     "dragmotion",
	EventFocusIn:        "focusin",
	EventFocusOut:       "focusout",
	EventSize:           "size",
	EventSizing:         "sizing",
	EventTimer:          "timer",
	EventOK:             "ok",
	EventCancel:         "cancel",
	EventClose:          "close",
	EventOpen:           "open",
	EventDock:           "dock",
	EventUndock:         "undock",
	EventPopIn:          "popin",
	EventPopOut:         "popout",
	EventMinimize:       "minimize",
	EventRestore:        "restore",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// IsMouse reports whether t is a mouse event type.
func (t EventType) IsMouse() bool { return t >= EventMouseDown && t <= EventMouseWheel }

// IsKey reports whether t is a keyboard event type.
func (t EventType) IsKey() bool { return t >= EventKeyDown && t <= EventKeyPress }

// IsDrag reports whether t is a drag-and-drop event type.
func (t EventType) IsDrag() bool { return t >= EventDragDrop && t <= EventDragMotion }

// Event is the closed set of payloads passed through dispatch. Payloads are
// values; dispatchers copy them rather than mutate them.
type Event interface {
	Type() EventType
	isEvent()
}

// Positional is implemented by events that carry a pointer position.
type Positional interface {
	Event
	Position() (x, y float64)
}

// SimpleEvent carries only its type.
type SimpleEvent struct {
	Kind EventType
}

func (e SimpleEvent) Type() EventType { return e.Kind }
func (SimpleEvent) isEvent()          {}

// PositionEvent is a generic event at a point.
type PositionEvent struct {
	Kind EventType
	X, Y float64
}

func (e PositionEvent) Type() EventType             { return e.Kind }
func (e PositionEvent) Position() (float64, float64) { return e.X, e.Y }
func (PositionEvent) isEvent()                      {}

// MouseEvent is a pointer event. X and Y are in the receiver's coordinate
// space; containers remap them on the way down.
type MouseEvent struct {
	Kind        EventType
	X, Y        float64
	WheelDeltaX int
	WheelDeltaY int
	Button      MouseButton
	Modifier    KeyModifiers
}

func (e MouseEvent) Type() EventType             { return e.Kind }
func (e MouseEvent) Position() (float64, float64) { return e.X, e.Y }
func (MouseEvent) isEvent()                      {}

// WithType returns a copy of e with a different type.
func (e MouseEvent) WithType(t EventType) MouseEvent {
	e.Kind = t
	return e
}

// KeyboardEvent is a key event delivered to the focused node.
type KeyboardEvent struct {
	Kind     EventType
	KeyCode  KeyCode
	Modifier KeyModifiers
}

func (e KeyboardEvent) Type() EventType { return e.Kind }
func (KeyboardEvent) isEvent()          {}

// DragEvent carries a drag-and-drop payload.
type DragEvent struct {
	Kind  EventType
	X, Y  float64
	Files []string
	URLs  []string
	Text  string
}

func (e DragEvent) Type() EventType             { return e.Kind }
func (e DragEvent) Position() (float64, float64) { return e.X, e.Y }
func (DragEvent) isEvent()                      {}

// WithType returns a copy of e with a different type. The payload slices
// are shared.
func (e DragEvent) WithType(t EventType) DragEvent {
	e.Kind = t
	return e
}

// SizingEvent proposes a new surface size. Handlers may adjust it through
// EventContext.Sizing.
type SizingEvent struct {
	Width, Height float64
}

func (SizingEvent) Type() EventType { return EventSizing }
func (SizingEvent) isEvent()        {}

// TimerEvent is delivered to scheduler callbacks. Value is the interpolated
// animation value, or the end value for timeouts and intervals.
type TimerEvent struct {
	Token int
	Value int
}

func (TimerEvent) Type() EventType { return EventTimer }
func (TimerEvent) isEvent()        {}

// EventContext is handed to every Handler. It carries the event, the node
// that fired it (nil at surface level) and the return value the handlers
// build up.
type EventContext struct {
	Event  Event
	Source *Node
	// Sizing is non-nil for EventSizing; handlers may rewrite it.
	Sizing *SizingEvent

	result EventResult
}

// Cancel marks the event canceled. Dispatchers skip default handling for
// canceled events.
func (c *EventContext) Cancel() { c.result = EventCanceled }

// SetReturnValue overrides the result reported back to the dispatcher.
func (c *EventContext) SetReturnValue(r EventResult) { c.result = r }

// ReturnValue is the result so far.
func (c *EventContext) ReturnValue() EventResult { return c.result }
