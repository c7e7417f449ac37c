package patterns

import "sync"

type Event[T any] struct {
	Data T      `json:"data"`
	Name string `json:"name"`
}

// Dispatcher fans out named events to function listeners.
type Dispatcher[T any] struct {
	mu        sync.RWMutex
	listeners []func(Event[T])
}

func (dispatcher *Dispatcher[T]) Subscribe(f func(Event[T])) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.listeners = append(dispatcher.listeners, f)
}

func (dispatcher *Dispatcher[T]) Notify(name string, data T) {
	dispatcher.mu.RLock()
	listeners := make([]func(Event[T]), len(dispatcher.listeners))
	copy(listeners, dispatcher.listeners)
	dispatcher.mu.RUnlock()

	msg := NewMessage(name, data)
	for _, f := range listeners {
		f(msg)
	}
}

func NewMessage[T any](name string, data T) Event[T] {
	return Event[T]{Name: name, Data: data}
}
