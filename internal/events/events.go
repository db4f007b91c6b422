package events

import (
	"net/http"
	"sync"

	"gallerypress/internal/domain/models"
)

// Rendered is emitted synchronously after a gallery page has been rendered.
type Rendered struct {
	Request  *http.Request
	Category string
	Gallery  *models.Gallery
}

// Dispatcher fans a Rendered event out to subscribed handlers, in
// subscription order, on the caller's goroutine.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []func(Rendered)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Subscribe(fn func(Rendered)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, fn)
}

func (d *Dispatcher) ObjectRendered(ev Rendered) {
	d.mu.RLock()
	handlers := d.handlers
	d.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
