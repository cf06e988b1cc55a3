package progression

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/xrexb2b/payflow-backend/internal/domain"
)

// watcherBuffer is how many changes a slow watcher may lag behind before events are dropped
const watcherBuffer = 16

// Broadcaster fans state changes out to consumers that are not coupled to the Machine
// (stream endpoints, list re-renders). Slow watchers lose events rather than block Set.
type Broadcaster struct {
	machine *Machine
	logger  *log.Logger
	now     func() time.Time

	mu          sync.Mutex
	watchers    map[uint64]chan domain.StateChange
	nextID      uint64
	closed      bool
	done        chan struct{}
	unsubscribe func()
}

// NewBroadcaster subscribes a Broadcaster to the machine
func NewBroadcaster(machine *Machine, logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Default()
	}

	b := &Broadcaster{
		machine:  machine,
		logger:   logger,
		now:      time.Now,
		watchers: make(map[uint64]chan domain.StateChange),
		done:     make(chan struct{}),
	}
	b.unsubscribe = machine.Subscribe(b.publish)

	return b
}

// Watch returns a channel that first receives the current state and then every change.
// The channel is closed when ctx is done or the Broadcaster is closed.
func (b *Broadcaster) Watch(ctx context.Context) <-chan domain.StateChange {
	ch := make(chan domain.StateChange, watcherBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	b.nextID++
	id := b.nextID
	b.watchers[id] = ch
	ch <- b.change(b.machine.Get())
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if watcher, ok := b.watchers[id]; ok {
			delete(b.watchers, id)
			close(watcher)
		}
	}()

	return ch
}

// Close detaches from the machine and closes every watcher channel
func (b *Broadcaster) Close() {
	b.unsubscribe()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for id, ch := range b.watchers {
		delete(b.watchers, id)
		close(ch)
	}
}

func (b *Broadcaster) publish(state domain.PrototypeState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	event := b.change(state)
	for id, ch := range b.watchers {
		select {
		case ch <- event:
		default:
			b.logger.Printf("[PROGRESSION] watcher %d is full, dropping state %d", id, state)
		}
	}
}

func (b *Broadcaster) change(state domain.PrototypeState) domain.StateChange {
	return domain.StateChange{
		State:     state,
		Label:     state.Label(),
		Attribute: state.Attribute(),
		ChangedAt: b.now(),
	}
}
