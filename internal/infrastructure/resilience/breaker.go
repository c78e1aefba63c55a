package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// MaxProbes is the number of trial calls allowed while half-open
	MaxProbes uint32
	// Cooldown is how long the breaker stays open before probing again
	Cooldown time.Duration
	// FailureThreshold trips the breaker after this many consecutive failures
	FailureThreshold uint32
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
	// Now overrides the clock in tests
	Now func() time.Time
}

// Breaker stops calling a failing endpoint until a cooldown passes.
// The live browser client wraps every devtools request in one.
type Breaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	failures   uint32
	successes  uint32
	probes     uint32
	openedAt   time.Time
	generation uint64
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.MaxProbes == 0 {
		settings.MaxProbes = 1
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 5 * time.Second
	}
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 3
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}

	return &Breaker{name: name, settings: settings}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh()
	return b.state
}

// Failures returns the current consecutive failure count
func (b *Breaker) Failures() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.failures
}

// Do runs fn if the breaker accepts it and records the outcome
func (b *Breaker) Do(fn func() error) error {
	gen, err := b.admit()
	if err != nil {
		return err
	}

	err = fn()
	b.record(gen, err == nil)
	return err
}

// Call runs fn through the breaker and returns its value
func Call[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var out T
	err := b.Do(func() error {
		v, err := fn()
		out = v
		return err
	})
	return out, err
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh()
	switch b.state {
	case StateOpen:
		return b.generation, ErrCircuitOpen
	case StateHalfOpen:
		if b.probes >= b.settings.MaxProbes {
			return b.generation, ErrTooManyRequests
		}
		b.probes++
	}
	return b.generation, nil
}

func (b *Breaker) record(gen uint64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.generation {
		return
	}

	if ok {
		b.failures = 0
		b.successes++
		if b.state == StateHalfOpen && b.successes >= b.settings.MaxProbes {
			b.transition(StateClosed)
		}
		return
	}

	b.successes = 0
	b.failures++
	switch b.state {
	case StateClosed:
		if b.failures >= b.settings.FailureThreshold {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		b.transition(StateOpen)
	}
}

// refresh moves an open breaker to half-open once the cooldown elapsed
func (b *Breaker) refresh() {
	if b.state == StateOpen && b.settings.Now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.transition(StateHalfOpen)
	}
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}

	from := b.state
	b.state = to
	b.generation++
	b.probes = 0
	b.successes = 0
	if to == StateOpen {
		b.openedAt = b.settings.Now()
	}
	if to == StateClosed {
		b.failures = 0
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
