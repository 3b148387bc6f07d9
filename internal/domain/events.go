package domain

// EventType names a ledger notification.
type EventType string

const (
	EventMoneyChanged    EventType = "money_changed"
	EventJailChanged     EventType = "jail_changed"
	EventNameChanged     EventType = "name_changed"
	EventBankruptCheck   EventType = "bankrupt_check"
	EventPropertyChanged EventType = "property_changed"
)

// Event describes one change made by the ledger.
// Only the fields relevant to Type are set.
type Event struct {
	Type     EventType
	Player   PlayerID
	Property PropertyID

	Money    int
	InJail   bool
	Bankrupt bool

	OldName string
	NewName string
}

// EventSink receives ledger events synchronously, in the order changes happen.
type EventSink interface {
	Publish(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Publish(e Event) { f(e) }

// EventRecorder buffers events until drained.
type EventRecorder struct {
	events []Event
}

func (r *EventRecorder) Publish(e Event) {
	r.events = append(r.events, e)
}

// Drain returns the buffered events and resets the buffer.
func (r *EventRecorder) Drain() []Event {
	out := r.events
	r.events = nil
	return out
}
