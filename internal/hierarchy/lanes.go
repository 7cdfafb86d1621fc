package hierarchy

import (
	"context"
	"sync"
)

// lanes runs work for the same key one at a time in arrival order. Each
// holder waits on its predecessor's channel, which closes on release.
type lanes struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

func newLanes() *lanes {
	return &lanes{tails: make(map[string]chan struct{})}
}

// acquire blocks until every earlier holder of key has released. If ctx
// ends first the slot is released behind the predecessor so later holders
// keep their order.
func (l *lanes) acquire(ctx context.Context, key string) (release func(), err error) {
	l.mu.Lock()
	prev := l.tails[key]
	mine := make(chan struct{})
	l.tails[key] = mine
	l.mu.Unlock()

	var once sync.Once
	release = func() {
		once.Do(func() {
			l.mu.Lock()
			if l.tails[key] == mine {
				delete(l.tails, key)
			}
			l.mu.Unlock()
			close(mine)
		})
	}

	if prev == nil {
		return release, nil
	}
	select {
	case <-prev:
		return release, nil
	case <-ctx.Done():
		go func() {
			<-prev
			release()
		}()
		return nil, ctx.Err()
	}
}
