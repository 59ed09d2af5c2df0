package daemon

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/docsmith/docsmith/internal/config"
)

// BuildEvent is the payload published to NATS after each build attempt.
type BuildEvent struct {
	BuildID       string    `json:"build_id"`
	Type          string    `json:"type"` // build.finished or build.failed
	Timestamp     time.Time `json:"timestamp"`
	PagesRendered int       `json:"pages_rendered"`
	PagesSkipped  int       `json:"pages_skipped"`
	DurationMS    int64     `json:"duration_ms"`
	Commit        string    `json:"commit,omitempty"`
	Error         string    `json:"error,omitempty"`
}

const (
	EventBuildFinished = "build.finished"
	EventBuildFailed   = "build.failed"
)

// Publisher emits build events on a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS and returns a publisher for the given subject.
func NewPublisher(natsURL, subject string) (*Publisher, error) {
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}
	if subject == "" {
		subject = config.DefaultSubject
	}

	conn, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish sends one build event. Publishing is fire-and-forget: the
// daemon keeps building when the broker is unreachable.
func (p *Publisher) Publish(event BuildEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, data)
}

// Close drains the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
