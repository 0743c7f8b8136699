package chatws

import (
	"sync"
	"time"

	"github.com/gatherly/eventchat/internal/domain"
)

// MessageRateLimiter caps how many messages a user may send within a
// sliding window, across all rooms.
type MessageRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.UserID][]time.Time
	limit    int
	interval time.Duration
}

func NewMessageRateLimiter(limit int, interval time.Duration) *MessageRateLimiter {
	return &MessageRateLimiter{
		history:  make(map[domain.UserID][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (l *MessageRateLimiter) Allow(userID domain.UserID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.interval)

	recent := l.history[userID][:0]
	for _, t := range l.history[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.history[userID] = recent
		return false
	}

	l.history[userID] = append(recent, now)
	return true
}

// Forget drops a user's window, typically on disconnect.
func (l *MessageRateLimiter) Forget(userID domain.UserID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.history, userID)
}
