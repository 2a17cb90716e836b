package ringlog

import "sync"

// notifier is the wake/wait primitive tied to appends. Broadcast is the
// close-and-replace channel idiom: every waiter holding the old channel
// observes the close; the next waiters pick up the fresh channel.
type notifier struct {
	mu sync.Mutex
	ch chan struct{}
}

func newNotifier() *notifier {
	return &notifier{ch: make(chan struct{})}
}

// wake broadcasts to every waiter that subscribed before this call.
// Called once per append, after the arena lock is released.
func (n *notifier) wake() {
	n.mu.Lock()
	close(n.ch)
	n.ch = make(chan struct{})
	n.mu.Unlock()
}

// channel returns the current broadcast channel. Grab it before re-checking
// log state so an append between the check and the wait cannot be missed.
func (n *notifier) channel() <-chan struct{} {
	n.mu.Lock()
	ch := n.ch
	n.mu.Unlock()
	return ch
}
