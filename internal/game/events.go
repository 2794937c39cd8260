package game

type EventType int

const (
	EventObstacleCleared EventType = iota
	EventOffload
	EventRunFailed
	EventStateChanged
)

// Event carries a presentation-relevant occurrence out of the core.
// X/Y locate it in world space where that makes sense; Value is a
// generic payload (flow multiplier, state tag, fail cause).
type Event struct {
	Type  EventType
	X, Y  float64
	Value float64
}

type EventHandler func(Event)

// EventBus is a synchronous fan-out. Handlers run on the tick thread,
// so they must not mutate simulation state.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
