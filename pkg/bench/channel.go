package bench

import (
	"sync"

	"github.com/pkg/errors"
)

// ChannelState хранит выбранный канал экземпляра прибора.
// Инвариант: 1 <= Current() <= Count() в любой момент.
type ChannelState struct {
	count int

	mu      sync.RWMutex
	current int
}

// NewChannelState создаёт состояние с выбранным первым каналом.
func NewChannelState(count int) (*ChannelState, error) {
	if count < 1 {
		return nil, validationErrorf("channel count %d must be at least 1", count)
	}
	return &ChannelState{count: count, current: 1}, nil
}

// Select делает канал k текущим. Вне диапазона состояние не меняется.
func (c *ChannelState) Select(k int) error {
	if err := c.check(k); err != nil {
		return err
	}
	c.mu.Lock()
	c.current = k
	c.mu.Unlock()
	return nil
}

// Current возвращает выбранный канал.
func (c *ChannelState) Current() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Count возвращает число каналов прибора.
func (c *ChannelState) Count() int { return c.count }

// Valid сообщает, существует ли канал k.
func (c *ChannelState) Valid(k int) bool { return k >= 1 && k <= c.count }

func (c *ChannelState) check(k int) error {
	if !c.Valid(k) {
		return errors.Wrapf(ErrChannelRange, "channel %d not in [1, %d]", k, c.count)
	}
	return nil
}
