package input

import (
	"sync"

	"git.lost.host/meutraa/eart/internal/event"
)

// Dispatcher delivers input events to its subscribers in the order they were published
type Dispatcher struct {
	// Channel rewrites by source channel
	Routes map[int]int
	// Channel every event is moved to when no route matches, 0 keeps it
	All int

	mu          sync.Mutex
	deliver     sync.Mutex
	subscribers []*subscriber
}

type subscriber struct {
	fn func(event.Event)
}

// Subscribe registers fn and returns the function that removes it again
func (d *Dispatcher) Subscribe(fn func(event.Event)) func() {
	s := &subscriber{fn}
	d.mu.Lock()
	d.subscribers = append(d.subscribers, s)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			for i, o := range d.subscribers {
				if o == s {
					d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

func (d *Dispatcher) route(channel int) int {
	if c, ok := d.Routes[channel]; ok {
		return c
	}
	if d.All > 0 {
		return d.All
	}
	return channel
}

func (d *Dispatcher) Publish(e event.Event) {
	e.Channel = d.route(e.Channel)

	d.deliver.Lock()
	defer d.deliver.Unlock()

	d.mu.Lock()
	subscribers := d.subscribers
	d.mu.Unlock()

	for _, s := range subscribers {
		s.fn(e)
	}
}
