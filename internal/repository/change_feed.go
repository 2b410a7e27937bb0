package repository

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"go.uber.org/zap"
)

// PostChangesChannel is the Postgres NOTIFY channel written on every post commit.
const PostChangesChannel = "post_changes"

type Subscription interface {
	Unsubscribe()
}

// ChangeFeed fans a payload-less change signal out to every subscriber.
type ChangeFeed struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{subs: make(map[int]func())}
}

type feedSubscription struct {
	feed *ChangeFeed
	id   int
	once sync.Once
}

func (s *feedSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s.id)
		s.feed.mu.Unlock()
	})
}

func (f *ChangeFeed) Subscribe(onChange func()) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = onChange
	return &feedSubscription{feed: f, id: id}
}

func (f *ChangeFeed) Publish() {
	f.mu.Lock()
	callbacks := make([]func(), 0, len(f.subs))
	for _, fn := range f.subs {
		callbacks = append(callbacks, fn)
	}
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// ListenPostChanges relays Postgres notifications on PostChangesChannel into feed
// until ctx is done. Commits made by other server instances arrive here too.
func ListenPostChanges(ctx context.Context, dsn string, feed *ChangeFeed) error {
	logger := logging.WithComponent("change-listener")

	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	defer listener.Close()

	if err := listener.Listen(PostChangesChannel); err != nil {
		return err
	}
	logger.Info("listening for post changes", zap.String("channel", PostChangesChannel))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-listener.Notify:
			// a nil notification follows a reconnect, which also means "refresh"
			feed.Publish()
		case <-time.After(90 * time.Second):
			go listener.Ping()
		}
	}
}
