package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDSource mints identifiers for newly drawn entities.
type IDSource interface {
	NextStallID() int64
	NewID() string
}

// ClockIDs mints temporary stall ids from the millisecond clock, bumped so
// two stalls drawn in the same millisecond never collide.
type ClockIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewClockIDs() *ClockIDs {
	return &ClockIDs{now: time.Now}
}

func (c *ClockIDs) NextStallID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

func (c *ClockIDs) NewID() string {
	return uuid.New().String()
}
