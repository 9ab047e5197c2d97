package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *memorySink) Log(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("db down")
	}
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(sink)

	d.Dispatch(Event{SalonID: 1, Action: "appointment_created"})
	d.Dispatch(Event{SalonID: 1, Action: "appointment_cancelled"})
	d.Close()

	assert.Len(t, sink.events, 2)
	assert.Equal(t, "appointment_created", sink.events[0].Action)
	assert.Equal(t, "appointment_cancelled", sink.events[1].Action)
}

func TestDispatcher_SinkErrorDoesNotStopWorker(t *testing.T) {
	sink := &memorySink{fail: true}
	d := NewDispatcher(sink)

	d.Dispatch(Event{Action: "a"})
	d.Dispatch(Event{Action: "b"})
	d.Close()

	assert.Empty(t, sink.events)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "x"}) })
}
