package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/docstage/docstage/internal/logfields"
)

// BuildEvent is the message published after each daemon-triggered build.
type BuildEvent struct {
	BuildID   string    `json:"build_id"`
	Outcome   string    `json:"outcome"`
	Theme     string    `json:"theme"`
	Renderer  string    `json:"renderer"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher publishes build events. The NATS implementation is optional;
// the daemon runs without one.
type EventPublisher interface {
	PublishBuild(ctx context.Context, event BuildEvent) error
	Close()
}

// NATSPublisher publishes build events to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to NATS and returns a publisher.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("docstage-daemon"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS %s: %w", url, err)
	}
	slog.Info("Connected to NATS", slog.String("url", url), slog.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// PublishBuild publishes a build event.
func (p *NATSPublisher) PublishBuild(_ context.Context, event BuildEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	slog.Debug("Published build event",
		logfields.BuildID(event.BuildID),
		slog.String("outcome", event.Outcome))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		slog.Warn("NATS drain failed", logfields.Error(err))
	}
}
