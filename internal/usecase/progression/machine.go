package progression

import (
	"context"
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/xrexb2b/payflow-backend/internal/domain"
)

// Listener is notified with the new state after every accepted Set.
// Listeners may call Get but must not call Set, Update, Change, Subscribe or an unsubscribe function.
type Listener func(state domain.PrototypeState)

type setOptions struct {
	force bool
}

// SetOption configures a Set call
type SetOption func(*setOptions)

// WithForce makes Set persist and notify even when the value is unchanged
func WithForce() SetOption {
	return func(o *setOptions) {
		o.force = true
	}
}

type subscription struct {
	id       uint64
	listener Listener
}

// Machine owns the prototype state, its listeners and the store it is persisted in.
// A nil store keeps the state in memory only.
type Machine struct {
	store  domain.KeyValueStore
	key    string
	logger *log.Logger

	current   atomic.Int32
	attribute atomic.Value // string

	mu            sync.Mutex
	subscriptions []subscription
	nextID        uint64
}

// NewMachine creates a Machine and loads the persisted state.
// A missing, unreadable or unparsable value falls back to StateNoCounterparty.
func NewMachine(ctx context.Context, store domain.KeyValueStore, key string, logger *log.Logger) *Machine {
	if key == "" {
		key = domain.DefaultPrototypeStateKey
	}
	if logger == nil {
		logger = log.Default()
	}

	m := &Machine{
		store:  store,
		key:    key,
		logger: logger,
	}

	initial := m.load(ctx)
	m.current.Store(int32(initial))
	m.attribute.Store(initial.Attribute())

	return m
}

func (m *Machine) load(ctx context.Context) domain.PrototypeState {
	if m.store == nil {
		return domain.MinPrototypeState
	}

	raw, found, err := m.store.Get(ctx, m.key)
	if err != nil {
		m.logger.Printf("[PROGRESSION] storage unavailable, starting at state %d: %v", domain.MinPrototypeState, err)
		return domain.MinPrototypeState
	}
	if !found {
		return domain.MinPrototypeState
	}

	return domain.ParsePrototypeState(raw)
}

// Get returns the current state
func (m *Machine) Get() domain.PrototypeState {
	return domain.PrototypeState(m.current.Load())
}

// Attribute returns the value reflected on the document root, e.g. "state-2"
func (m *Machine) Attribute() string {
	return m.attribute.Load().(string)
}

// Set clamps next into the valid range and makes it the current state.
// Without WithForce an unchanged value is neither persisted nor notified.
// Persistence failures are logged and never surfaced; the in-memory state still changes.
// Listeners have all been notified, in subscription order, when Set returns.
func (m *Machine) Set(ctx context.Context, next int, opts ...SetOption) domain.PrototypeState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.set(ctx, next, opts...)
}

// Update reads the current state, asks decide for the next one and sets it, all under one lock.
// When decide returns false nothing changes and Update returns the current state and false.
// decide must not call Set, Update, Change or Subscribe.
func (m *Machine) Update(ctx context.Context, decide func(current domain.PrototypeState) (next int, ok bool), opts ...SetOption) (domain.PrototypeState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.Get()
	next, ok := decide(current)
	if !ok {
		return current, false
	}
	return m.set(ctx, next, opts...), true
}

// set must be called with mu held
func (m *Machine) set(ctx context.Context, next int, opts ...SetOption) domain.PrototypeState {
	options := setOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	clamped := domain.ClampPrototypeState(next)
	if !options.force && clamped == m.Get() {
		return clamped
	}

	m.current.Store(int32(clamped))
	m.persist(ctx, clamped)
	m.attribute.Store(clamped.Attribute())
	m.notify(clamped)

	return clamped
}

// SetRaw is Set for unvalidated input; values without a leading integer become StateNoCounterparty
func (m *Machine) SetRaw(ctx context.Context, raw string, opts ...SetOption) domain.PrototypeState {
	return m.Set(ctx, int(domain.ParsePrototypeState(raw)), opts...)
}

// Change moves the state by delta
func (m *Machine) Change(ctx context.Context, delta int) domain.PrototypeState {
	state, _ := m.Update(ctx, func(current domain.PrototypeState) (int, bool) {
		return int(current) + delta, true
	})
	return state
}

// Subscribe registers a listener and immediately invokes it with the current state.
// The returned function deregisters the listener; calling it more than once is a no-op.
// A nil listener is not registered.
func (m *Machine) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.subscriptions = append(m.subscriptions, subscription{id: id, listener: listener})
	m.invoke(listener, m.Get())

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		for i, sub := range m.subscriptions {
			if sub.id == id {
				m.subscriptions = append(m.subscriptions[:i], m.subscriptions[i+1:]...)
				return
			}
		}
	}
}

func (m *Machine) persist(ctx context.Context, state domain.PrototypeState) {
	if m.store == nil {
		return
	}
	if err := m.store.Set(ctx, m.key, strconv.Itoa(int(state))); err != nil {
		m.logger.Printf("[PROGRESSION] failed to persist state %d: %v", state, err)
	}
}

// notify must be called with mu held
func (m *Machine) notify(state domain.PrototypeState) {
	for _, sub := range m.subscriptions {
		m.invoke(sub.listener, state)
	}
}

func (m *Machine) invoke(listener Listener, state domain.PrototypeState) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Printf("[PROGRESSION] listener panicked on state %d: %v", state, r)
		}
	}()
	listener(state)
}
