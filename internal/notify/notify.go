// Package notify holds the single transient toast shown at the bottom of
// the screen. A new message replaces the old one and restarts the
// auto-dismiss timer; messages are never queued.
package notify

import (
	"sync"
	"time"
)

// DefaultDismissDelay is how long a toast stays visible.
const DefaultDismissDelay = 5 * time.Second

// Level is a display hint. It does not affect timing.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// State is a copy of the notifier's fields.
type State struct {
	Message string
	Visible bool
	Level   Level
}

// Notifier holds one message and its pending hide timer.
type Notifier struct {
	delay time.Duration

	mu      sync.Mutex
	state   State
	gen     uint64
	timer   *time.Timer
	closed  bool
	subs    map[int]chan struct{}
	nextSub int
}

// New returns a notifier that hides messages after delay, or after
// DefaultDismissDelay when delay is not positive.
func New(delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = DefaultDismissDelay
	}
	return &Notifier{
		delay: delay,
		subs:  make(map[int]chan struct{}),
	}
}

// Delay returns the auto-dismiss delay.
func (n *Notifier) Delay() time.Duration {
	return n.delay
}

// Show displays text and schedules its hide, cancelling any earlier one.
func (n *Notifier) Show(text string) {
	n.show(text, LevelInfo)
}

// ShowError is Show with the error display hint.
func (n *Notifier) ShowError(text string) {
	n.show(text, LevelError)
}

func (n *Notifier) show(text string, level Level) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.stopTimer()
	n.gen++
	gen := n.gen
	n.state = State{Message: text, Visible: true, Level: level}
	n.timer = time.AfterFunc(n.delay, func() { n.expire(gen) })
	n.mu.Unlock()
	n.notify()
}

// Hide clears visibility now and cancels the pending hide.
func (n *Notifier) Hide() {
	n.mu.Lock()
	n.stopTimer()
	n.gen++
	changed := n.state.Visible
	n.state.Visible = false
	n.mu.Unlock()
	if changed {
		n.notify()
	}
}

// expire hides the message shown at generation gen. A timer that fires
// after a newer Show or Hide finds a different generation and does nothing.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || !n.state.Visible {
		n.mu.Unlock()
		return
	}
	n.state.Visible = false
	n.timer = nil
	n.mu.Unlock()
	n.notify()
}

// Snapshot returns the current state.
func (n *Notifier) Snapshot() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Subscribe returns a channel signalled on every change and a func that
// unsubscribes. Signals coalesce.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = ch
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Close stops the pending timer. Later Show calls are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimer()
	n.gen++
	n.closed = true
}

func (n *Notifier) stopTimer() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
