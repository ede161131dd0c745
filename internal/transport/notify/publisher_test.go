package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type fakeConn struct {
	subject    string
	data       []byte
	publishErr error
	drained    bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.subject = subject
	f.data = data
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

type PublisherTestSuite struct {
	suite.Suite
	conn      *fakeConn
	publisher *NATSPublisher
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherTestSuite))
}

func (s *PublisherTestSuite) SetupTest() {
	s.conn = &fakeConn{}
	s.publisher = NewNATSPublisher(s.conn, "")
}

func (s *PublisherTestSuite) TestPublishOrderOutcome() {
	ref := gofakeit.UUID()
	apiStatus := "delivered"
	order := &domain.Order{
		ID:                10,
		UserID:            3,
		TotalAmount:       decimal.RequireFromString("4.20"),
		Status:            domain.OrderStatusCompleted,
		BeneficiaryNumber: gofakeit.Phone(),
		Network:           "MTN",
		ReferenceID:       &ref,
		APIStatus:         &apiStatus,
	}
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Require().NoError(s.publisher.PublishOrderOutcome(s.T().Context(), NewOrderOutcomeEvent(order, at)))
	s.Equal(DefaultSubject, s.conn.subject)

	var event OrderOutcomeEvent
	s.Require().NoError(json.Unmarshal(s.conn.data, &event))
	s.Equal(order.ID, event.OrderID)
	s.Equal(ref, event.Reference)
	s.Equal(domain.OrderStatusCompleted, event.Status)
	s.Equal(apiStatus, event.APIStatus)
	s.True(order.TotalAmount.Equal(event.Amount))
	s.True(at.Equal(event.OccurredAt))
}

func (s *PublisherTestSuite) TestPublishErrors() {
	s.conn.publishErr = nats.ErrConnectionClosed
	err := s.publisher.PublishOrderOutcome(s.T().Context(), OrderOutcomeEvent{OrderID: 1})
	s.Require().ErrorIs(err, nats.ErrConnectionClosed)

	ctx, cancel := context.WithCancel(s.T().Context())
	cancel()
	err = s.publisher.PublishOrderOutcome(ctx, OrderOutcomeEvent{OrderID: 1})
	s.Require().ErrorIs(err, context.Canceled)
}

func (s *PublisherTestSuite) TestClose() {
	s.Require().NoError(s.publisher.Close())
	s.True(s.conn.drained)

	s.Require().NoError(NoopPublisher{}.Close())
	s.Require().NoError(NoopPublisher{}.PublishOrderOutcome(s.T().Context(), OrderOutcomeEvent{}))
}
