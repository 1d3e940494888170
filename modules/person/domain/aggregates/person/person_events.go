package person

import "time"

// CreatedEvent is published after a person row has been inserted.
type CreatedEvent struct {
	Result    Person
	Timestamp time.Time
}

func NewCreatedEvent(result Person) *CreatedEvent {
	return &CreatedEvent{
		Result:    result,
		Timestamp: time.Now(),
	}
}
