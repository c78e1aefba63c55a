package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var errFailed = errors.New("failed")

func run(b *Breaker, ok bool) error {
	return b.Do(func() error {
		if ok {
			return nil
		}
		return errFailed
	})
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		threshold     uint32
		requests      []bool
		expectedState State
	}{
		{"stays closed on successes", 3, []bool{true, true, true}, StateClosed},
		{"opens after consecutive failures", 3, []bool{false, false, false}, StateOpen},
		{"success resets failure streak", 3, []bool{false, false, true, false, false}, StateClosed},
		{"threshold of one", 1, []bool{false}, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("devtools", Settings{FailureThreshold: tt.threshold, Cooldown: time.Minute})

			for _, ok := range tt.requests {
				_ = run(b, ok)
			}

			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := New("devtools", Settings{FailureThreshold: 1, Cooldown: time.Second, Now: clock.Now})

	require.ErrorIs(t, run(b, false), errFailed)
	assert.ErrorIs(t, run(b, true), ErrCircuitOpen)

	clock.Advance(time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, run(b, true))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	var transitions []State
	b := New("devtools", Settings{
		FailureThreshold: 1,
		Cooldown:         time.Second,
		Now:              clock.Now,
		OnStateChange: func(_ string, _ State, to State) {
			transitions = append(transitions, to)
		},
	})

	_ = run(b, false)
	clock.Advance(2 * time.Second)
	_ = run(b, false)

	assert.Equal(t, StateOpen, b.State())
	assert.Equal(t, []State{StateOpen, StateHalfOpen, StateOpen}, transitions)
}

func TestBreakerLimitsHalfOpenCalls(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := New("devtools", Settings{FailureThreshold: 1, Cooldown: time.Second, Now: clock.Now})

	_ = run(b, false)
	clock.Advance(time.Second)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- b.Do(func() error {
			close(entered)
			<-release
			return nil
		})
	}()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("half-open call did not start")
	}
	assert.Equal(t, StateHalfOpen, b.State())
	assert.ErrorIs(t, run(b, true), ErrTooManyRequests)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, b.State())
}

func TestCall(t *testing.T) {
	b := New("devtools", Settings{})

	v, err := Call(b, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, uint32(0), b.Failures())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
