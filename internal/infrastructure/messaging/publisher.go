package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/rohit30san/thapar-olx/internal/domain/service"
)

// Publisher sends domain events as JSON over NATS core subjects.
type Publisher struct {
	conn *nats.Conn
}

var _ service.EventPublisher = (*Publisher)(nil)

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("thapar-olx-api"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, jsonData)
}

func (p *Publisher) Ping(ctx context.Context) error {
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats connection %s", p.conn.Status())
	}
	return nil
}

func (p *Publisher) Close() {
	p.conn.Drain()
}
