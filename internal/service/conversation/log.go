package conversation

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type Exchange struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Log keeps a windowed, in-memory record of exchanges per conversation so
// clients can replay what was asked and answered. Nothing is persisted.
type Log struct {
	window  int
	counter atomic.Uint64

	mtx       sync.RWMutex
	exchanges map[string][]Exchange
}

func NewLog(window int) *Log {
	if window < 1 {
		window = 20
	}
	return &Log{
		window:    window,
		exchanges: map[string][]Exchange{},
	}
}

// Append records one exchange, creating the conversation on first use. When
// id is empty a counter-derived id is issued and returned.
func (l *Log) Append(id string, role string, content string) string {
	if len(id) == 0 {
		id = fmt.Sprintf("conv-%d", l.counter.Add(1))
	}

	l.mtx.Lock()
	defer l.mtx.Unlock()

	history := append(l.exchanges[id], Exchange{
		Role:    role,
		Content: content,
		At:      time.Now().UTC(),
	})

	if len(history) > l.window {
		history = history[len(history)-l.window:]
	}

	l.exchanges[id] = history

	return id
}

func (l *Log) List(id string, limit int) []Exchange {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	history := l.exchanges[id]

	copied := make([]Exchange, len(history))
	copy(copied, history)

	if limit > 0 && len(copied) > limit {
		copied = copied[len(copied)-limit:]
	}

	return copied
}
