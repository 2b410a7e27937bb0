// Package realtime pushes payload-less refresh signals to connected viewers
// whenever the post collection changes.
package realtime

import (
	"sync"

	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"go.uber.org/zap"
)

type Source interface {
	Subscribe(onChange func()) repository.Subscription
}

type Hub struct {
	mu      sync.Mutex
	viewers map[chan struct{}]struct{}
	sub     repository.Subscription
	done    chan struct{}
	once    sync.Once
	log     *zap.Logger
}

func NewHub(source Source) *Hub {
	h := &Hub{
		viewers: make(map[chan struct{}]struct{}),
		done:    make(chan struct{}),
		log:     logging.WithComponent("realtime"),
	}
	h.sub = source.Subscribe(h.broadcast)
	return h
}

// Join registers a viewer. The channel holds at most one pending signal, so a
// burst of commits reaches a slow viewer as a single refresh.
func (h *Hub) Join() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.viewers[ch] = struct{}{}
	n := len(h.viewers)
	h.mu.Unlock()
	h.log.Debug("viewer joined", zap.Int("viewers", n))

	var once sync.Once
	leave := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.viewers, ch)
			h.mu.Unlock()
		})
	}
	return ch, leave
}

func (h *Hub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.viewers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Done is closed once the hub stops, so open streams can end.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) Close() {
	h.once.Do(func() {
		h.sub.Unsubscribe()
		close(h.done)
	})
}
