package service

// EventNewMessage is published once per stored submission.
const EventNewMessage = "new-message"

// Notifier broadcasts an event to every connected subscriber. Delivery is
// best-effort; implementations must not block on subscriber I/O.
type Notifier interface {
	Publish(event string, payload any)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) Publish(string, any) {}
