package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher публикует события о заказах в NATS.
type NATSPublisher struct {
	conn    natsConn
	subject string
}

func NewNATSPublisher(conn natsConn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: conn, subject: subject}
}

// Connect подключается к NATS по url. Соединение переподключается само, разрывы только логируются.
func Connect(url, subject string, l *logrus.Logger) (*NATSPublisher, error) {
	logger := l.WithField("component", "notify")
	conn, err := nats.Connect(url,
		nats.Name("bundle-reconciler"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, disconnectErr error) {
			if disconnectErr != nil {
				logger.WithError(disconnectErr).Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.WithField("url", c.ConnectedUrl()).Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return NewNATSPublisher(conn, subject), nil
}

func (p *NATSPublisher) PublishOrderOutcome(ctx context.Context, event OrderOutcomeEvent) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}
	data, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		return fmt.Errorf("marshal order outcome event: %w", marshalErr)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish order %d outcome: %w", event.OrderID, err)
	}
	return nil
}

// Close дожидается отправки буферизованных сообщений и закрывает соединение.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain() //nolint:wrapcheck
}

// NoopPublisher используется, когда NATS не настроен.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderOutcome(context.Context, OrderOutcomeEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
