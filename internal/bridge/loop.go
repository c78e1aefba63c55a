package bridge

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Loop runs posted tasks one at a time, in order, on a single goroutine.
// It is the shell's UI thread: native work and callbacks run only here.
type Loop struct {
	log *zap.Logger

	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	started bool
	stopped bool
	done    chan struct{}
}

// NewLoop creates a loop; call Start to run it.
func NewLoop(log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		log:  log.Named("loop"),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Start runs the loop on its own goroutine.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	go l.run()
}

// Post queues task. It never runs task before returning and reports false
// once the loop has been stopped.
func (l *Loop) Post(task func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// PostAfter queues task once d has elapsed. If the loop has stopped by then
// the task is dropped and rejected, when non-nil, is called instead.
func (l *Loop) PostAfter(d time.Duration, task func(), rejected func()) {
	time.AfterFunc(d, func() {
		if !l.Post(task) && rejected != nil {
			rejected()
		}
	})
}

// Stop rejects new tasks, runs the ones already queued and waits for the
// loop goroutine to exit.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.stopped = true
	started := l.started
	l.mu.Unlock()

	if !started {
		close(l.done)
		return
	}
	select {
	case l.wake <- struct{}{}:
	default:
	}
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			stopped := l.stopped
			l.mu.Unlock()
			if stopped {
				return
			}
			<-l.wake
			continue
		}
		task := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.exec(task)
	}
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("Task panicked", zap.String("panic", fmt.Sprint(r)), zap.Stack("stack"))
		}
	}()
	task()
}
