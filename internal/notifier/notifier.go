package notifier

import (
	"context"
	"time"

	"github.com/pfrederiksen/apex-rankmap/internal/rotation"
)

// Notification is everything a channel needs to announce a rotation
type Notification struct {
	Rotation *rotation.Rotation
	// ImageURL is empty when no illustration could be resolved
	ImageURL string
	// At is the formatting time
	At time.Time
}

// Notifier defines the interface for posting rotation notifications
type Notifier interface {
	// Notify delivers a single notification
	Notify(ctx context.Context, n Notification) error
}
