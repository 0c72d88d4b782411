package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"voter-registration/models"
)

const defaultNotificationLimit = 32

// Notifier is the toast queue shown on the page. Old entries are dropped
// once the queue is full.
type Notifier struct {
	mu    sync.Mutex
	items []models.Notification
	limit int
	now   func() time.Time
}

func NewNotifier(limit int) *Notifier {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return &Notifier{
		items: make([]models.Notification, 0, limit),
		limit: limit,
		now:   time.Now,
	}
}

func (n *Notifier) Success(message, title string, duration time.Duration) models.Notification {
	return n.push(models.NotificationSuccess, message, title, duration)
}

func (n *Notifier) Error(message, title string, duration time.Duration) models.Notification {
	return n.push(models.NotificationError, message, title, duration)
}

func (n *Notifier) push(kind models.NotificationKind, message, title string, duration time.Duration) models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	notification := models.Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		Duration:  duration,
		CreatedAt: n.now(),
	}

	if len(n.items) >= n.limit {
		n.items = append(n.items[:0], n.items[len(n.items)-n.limit+1:]...)
	}
	n.items = append(n.items, notification)

	return notification
}

// Active returns unexpired notifications, oldest first, and forgets the
// expired ones.
func (n *Notifier) Active(now time.Time) []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.items[:0]
	for _, item := range n.items {
		if !item.Expired(now) {
			kept = append(kept, item)
		}
	}
	n.items = kept

	out := make([]models.Notification, len(kept))
	copy(out, kept)
	return out
}

// Drain returns every pending notification and empties the queue.
func (n *Notifier) Drain() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := n.items
	n.items = make([]models.Notification, 0, n.limit)
	return out
}
