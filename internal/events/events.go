// Package events publishes spotlight analytics events.
package events

import (
	"context"
	"io"
	"log"

	"product-spotlight/internal/domain"

	"github.com/goccy/go-json"
)

// Publisher emits one event. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// LogPublisher writes events to a logger. It is used when no broker is
// configured.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.logger.Printf("event: %s %s", event.Name, body)
	return nil
}
