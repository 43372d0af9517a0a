// Package dispatch moves the actions produced by one sampling tick to the
// goroutine that owns the injection backend.
package dispatch

import (
	"context"
	"sort"

	"github.com/soar/padchord/internal/action"
	"github.com/soar/padchord/internal/log"
)

// Event is one action edge.
type Event struct {
	Action  action.Action
	Pressed bool
}

// Batch is every event of one tick, releases first.
type Batch []Event

// Queue collects the events of the current tick. It belongs to the sampling
// goroutine.
type Queue struct {
	events []Event
}

// Push appends an edge. None actions are skipped.
func (q *Queue) Push(a action.Action, pressed bool) {
	if a.IsNone() {
		return
	}
	q.events = append(q.events, Event{Action: a, Pressed: pressed})
}

func (q *Queue) Len() int {
	return len(q.events)
}

// Flush sorts the pending events so every release precedes every press,
// offers them to out without blocking, and empties the queue. It returns the
// batch and whether out accepted it; a full channel drops the batch.
func (q *Queue) Flush(out chan<- Batch) (Batch, bool) {
	if len(q.events) == 0 {
		return nil, false
	}
	batch := Batch(q.events)
	q.events = nil
	sort.SliceStable(batch, func(i, j int) bool {
		return !batch[i].Pressed && batch[j].Pressed
	})

	select {
	case out <- batch:
		return batch, true
	default:
		log.Debug("dispatch channel full, dropping batch", "events", len(batch))
		return batch, false
	}
}

// Performer executes one event.
type Performer interface {
	Perform(a action.Action, pressed bool) error
}

// Drain performs every batch received on in, in order, until in is closed
// or ctx is done. Failed events are logged and skipped.
func Drain(ctx context.Context, in <-chan Batch, p Performer) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-in:
			if !ok {
				return
			}
			for _, ev := range batch {
				if err := p.Perform(ev.Action, ev.Pressed); err != nil {
					log.Warn("inject failed", "action", ev.Action.String(), "pressed", ev.Pressed, "err", err)
				}
			}
		}
	}
}
