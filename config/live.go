package config

import "sync/atomic"

// Live publishes a Config to a polling reader without locks.
// Writers copy, mutate and swap; readers take one Snapshot per tick.
type Live struct {
	cur atomic.Pointer[Config]
}

// NewLive wraps a copy of c. A nil c starts from defaults.
func NewLive(c *Config) *Live {
	if c == nil {
		c = DefaultConfig()
	}
	cp := *c
	_ = cp.Validate()
	l := &Live{}
	l.cur.Store(&cp)
	return l
}

// Snapshot returns a copy of the current configuration.
func (l *Live) Snapshot() Config {
	return *l.cur.Load()
}

// Update applies fn to a copy of the current configuration, validates it and
// publishes it. It returns the published value.
func (l *Live) Update(fn func(*Config)) Config {
	for {
		old := l.cur.Load()
		next := *old
		fn(&next)
		_ = next.Validate()
		if l.cur.CompareAndSwap(old, &next) {
			return next
		}
	}
}

// Save persists the current configuration to path. An empty path disables
// persistence and Save returns nil.
func (l *Live) Save(path string) error {
	if path == "" {
		return nil
	}
	c := l.Snapshot()
	return c.Save(path)
}
