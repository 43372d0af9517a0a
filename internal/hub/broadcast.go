package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/soar/padchord/internal/engine"
	"github.com/soar/padchord/internal/gamepad"
	"github.com/soar/padchord/internal/log"
	"github.com/soar/padchord/internal/zone"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster turns engine snapshots into full and delta messages for the hub.
type Broadcaster struct {
	hub       *Hub
	snapshots <-chan engine.Snapshot

	mu        sync.Mutex
	lastState gamepad.DeviceState
	lastZone  zone.Zone
	seen      bool
	seq       int64
}

func NewBroadcaster(h *Hub, snapshots <-chan engine.Snapshot) *Broadcaster {
	return &Broadcaster{
		hub:       h,
		snapshots: snapshots,
		lastZone:  zone.None,
	}
}

// Run starts the broadcaster loop until the snapshot channel closes or ctx is
// done.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	var deltaCount int64

	for {
		select {
		case <-ctx.Done():
			return

		case snap, ok := <-b.snapshots:
			if !ok {
				return
			}
			if data := b.handle(snap, &deltaCount); data != nil {
				b.hub.Broadcast(data)
			}

		case <-ticker.C:
			b.mu.Lock()
			var data []byte
			if b.seen {
				b.seq++
				data = b.encode(NewFullMessage(b.seq, &b.lastState, b.lastZone.String(), nil))
			}
			b.mu.Unlock()
			if data != nil {
				b.hub.Broadcast(data)
			}
		}
	}
}

func (b *Broadcaster) handle(snap engine.Snapshot, deltaCount *int64) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	delta := gamepad.ComputeDelta(b.lastState, snap.State)
	events := FormatEvents(snap.Events)
	zoneChanged := snap.Zone != b.lastZone
	b.lastState = snap.State
	b.lastZone = snap.Zone
	b.seen = true

	if delta.IsEmpty() && !zoneChanged && len(events) == 0 {
		return nil
	}

	b.seq++
	*deltaCount++

	// Send full sync periodically
	if *deltaCount >= deltaCountSync {
		*deltaCount = 0
		return b.encode(NewFullMessage(b.seq, &snap.State, snap.Zone.String(), events))
	}
	return b.encode(NewDeltaMessage(b.seq, delta, snap.Zone.String(), events))
}

// SendInitialState sends the current full state to a newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	state := b.lastState
	msg := NewFullMessage(b.seq, &state, b.lastZone.String(), nil)
	b.mu.Unlock()

	for _, m := range []*WSMessage{NewHelloMessage(c.ID), msg} {
		data := b.encode(m)
		if data == nil {
			return
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

func (b *Broadcaster) encode(msg *WSMessage) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("marshal monitor message", "type", msg.Type, "err", err)
		return nil
	}
	return data
}
