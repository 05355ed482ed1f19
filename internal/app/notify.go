package app

import (
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

const defaultNotificationCap = 50

// Notifications is a bounded FIFO; when full the oldest entry is dropped.
type Notifications struct {
	mu    sync.Mutex
	max   int
	items []Notification
}

func NewNotifications(max int) *Notifications {
	if max <= 0 {
		max = defaultNotificationCap
	}
	return &Notifications{max: max}
}

func (n *Notifications) Push(level Level, message string, at time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{Level: level, Message: message, At: at})
	if over := len(n.items) - n.max; over > 0 {
		n.items = append(n.items[:0:0], n.items[over:]...)
	}
}

// Drain returns every queued notification and empties the queue.
func (n *Notifications) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (n *Notifications) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}
