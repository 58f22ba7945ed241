/* limiter.go
 * Contains the per user command rate limiter
 * Authors: Zachary Bower
 */

package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	mu      sync.Mutex
	perUser map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func newUserLimiter(perMinute int) *userLimiter {
	if perMinute < 1 {
		perMinute = defaultCommandsPerMinute
	}
	return &userLimiter{
		perUser: make(map[string]*rate.Limiter),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
	}
}

// Allow reports whether the user may run another command now
func (l *userLimiter) Allow(userID string) bool {
	l.mu.Lock()
	limiter, ok := l.perUser[userID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.perUser[userID] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
