package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
)

// Publisher receives decoded change events.
type Publisher interface {
	Publish(evt domain.ChangeEvent)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(evt domain.ChangeEvent)

func (f PublisherFunc) Publish(evt domain.ChangeEvent) { f(evt) }

// Listener holds one dedicated connection that LISTENs on a notification channel and
// forwards the row change payloads written by database triggers.
type Listener struct {
	pool       *pgxpool.Pool
	channel    string
	publisher  Publisher
	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewListener(pool *pgxpool.Pool, channel string, publisher Publisher) *Listener {
	return &Listener{
		pool:       pool,
		channel:    channel,
		publisher:  publisher,
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
	}
}

// Run listens until ctx is cancelled, reconnecting with backoff when the connection drops.
func (l *Listener) Run(ctx context.Context) error {
	log := logger.Get()
	backoff := l.minBackoff

	for attempt := 0; ; attempt++ {
		err := l.listen(ctx, attempt > 0)
		if ctx.Err() != nil {
			return nil
		}
		log.Error().Err(err).Dur("retry_in", backoff).Msg("[Realtime] Listener disconnected")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > l.maxBackoff {
			backoff = l.maxBackoff
		}
	}
}

// listen holds the connection until it fails. After a reconnect a resync event is published
// because notifications sent while disconnected are gone.
func (l *Listener) listen(ctx context.Context, reconnect bool) error {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	// The connection leaves the pool for good; LISTEN state must not leak to other queries.
	conn := pooled.Hijack()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	logger.Get().Info().Str("channel", l.channel).Bool("reconnect", reconnect).Msg("[Realtime] Listening for changes")
	if reconnect {
		l.publisher.Publish(domain.ResyncEvent())
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		evt, err := Decode([]byte(n.Payload))
		if err != nil {
			logger.Get().Warn().Err(err).Str("payload", truncate(n.Payload, 200)).Msg("[Realtime] Ignoring malformed change")
			continue
		}
		l.publisher.Publish(evt)
	}
}

var (
	errNoTable  = errors.New("change has no table")
	errBadType  = errors.New("change has an unknown type")
	errNoRecord = errors.New("change has no row data")
)

// Decode parses and validates a notification payload.
func Decode(payload []byte) (domain.ChangeEvent, error) {
	var evt domain.ChangeEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("decode change: %w", err)
	}
	if evt.Table == "" {
		return domain.ChangeEvent{}, errNoTable
	}
	switch evt.Type {
	case domain.ChangeInsert, domain.ChangeUpdate:
		if isEmptyJSON(evt.New) {
			return domain.ChangeEvent{}, errNoRecord
		}
	case domain.ChangeDelete:
		if isEmptyJSON(evt.Old) {
			return domain.ChangeEvent{}, errNoRecord
		}
	default:
		return domain.ChangeEvent{}, errBadType
	}
	return evt, nil
}

func isEmptyJSON(raw []byte) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
