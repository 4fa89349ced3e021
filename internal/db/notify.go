package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// DefaultChannel is the NOTIFY channel announcing reference data changes.
const DefaultChannel = "reference_data_updated"

// Notifier wraps the LISTEN/NOTIFY mechanism in PostgreSQL.  The seed command
// announces replaced datasets; running servers hold an immutable copy and only
// report that it is stale.
type Notifier struct {
	DB      *sql.DB
	Channel string
}

// NewNotifier constructs a new Notifier.
func NewNotifier(db *sql.DB, channel string) *Notifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Notifier{DB: db, Channel: channel}
}

// Notify sends a notification to the channel with the dataset name as payload.
func (n *Notifier) Notify(ctx context.Context, dataset string) error {
	_, err := n.DB.ExecContext(ctx, `SELECT pg_notify($1, $2)`, n.Channel, dataset)
	return err
}

// Watch listens on channel until ctx is done and calls onUpdate with each
// payload.  It opens its own connection through pq.Listener.
func Watch(ctx context.Context, url, channel string, log *zap.Logger, onUpdate func(dataset string)) error {
	if channel == "" {
		channel = DefaultChannel
	}
	listener := pq.NewListener(url, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("reference listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	defer listener.Close()

	if err := listener.Listen(channel); err != nil {
		return fmt.Errorf("cannot listen on %s: %w", channel, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect
			if n == nil {
				continue
			}
			onUpdate(n.Extra)
		case <-time.After(90 * time.Second):
			if err := listener.Ping(); err != nil {
				log.Warn("reference listener ping failed", zap.Error(err))
			}
		}
	}
}
