package scheduler

import "sync"

// listenerRegistry is a thread-safe set of status-change callbacks.
// Notifications carry no payload; listeners re-read the batch to learn
// what changed. The registry is decoupled from job lifecycle so it can
// be cleared at teardown while jobs are still running.
type listenerRegistry struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{listeners: make(map[int]func())}
}

// add registers a callback and returns a function that removes it.
// The returned function is safe to call more than once.
func (lr *listenerRegistry) add(fn func()) func() {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	id := lr.nextID
	lr.nextID++
	lr.listeners[id] = fn

	return func() {
		lr.mu.Lock()
		defer lr.mu.Unlock()
		delete(lr.listeners, id)
	}
}

// clear drops every registered listener.
func (lr *listenerRegistry) clear() {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.listeners = make(map[int]func())
}

// notify invokes each listener registered at the time of the call.
// Callbacks run on the caller's goroutine and outside the registry
// lock, so a listener may unsubscribe itself.
func (lr *listenerRegistry) notify() {
	lr.mu.Lock()
	fns := make([]func(), 0, len(lr.listeners))
	for _, fn := range lr.listeners {
		fns = append(fns, fn)
	}
	lr.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
