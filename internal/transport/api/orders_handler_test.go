package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/logger"
	"github.com/fsdevblog/bundle-reconciler/internal/service"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/mocks"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/testutils"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockOrderService  *mocks.MockOrderServicer
	mockWalletService *mocks.MockWalletServicer
	jwtSecret         []byte
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mockCtrl := gomock.NewController(s.T())

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.mockWalletService = mocks.NewMockWalletServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, err := New(RouterArgs{
		Logger:        logger.New(io.Discard, "test"),
		OrderService:  s.mockOrderService,
		WalletService: s.mockWalletService,
		Jobs:          mocks.NewMockJobTrigger(mockCtrl),
		JWTSecretKey:  s.jwtSecret,
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *OrderHandlerTestSuite) userToken(userID int64) string {
	token, err := tokens.GenerateUserJWT(userID, domain.UserRoleCustomer, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *OrderHandlerTestSuite) TestCreate() {
	var currentUserID int64 = 1
	token := s.userToken(currentUserID)

	const (
		okNumber      = "0241234567"
		poorNumber    = "0551234567"
		zeroNumber    = "+233201234567"
		ghostNumber   = "0201234567"
		invalidNumber = "12345"
	)

	s.mockWalletService.EXPECT().
		Checkout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.CheckoutArgs) (*domain.Order, error) {
			s.Equal(currentUserID, args.UserID)
			switch args.BeneficiaryNumber {
			case okNumber:
				s.Equal("mtn", args.Network)
				s.True(args.Amount.Equal(decimal.RequireFromString("20.5")))
				return &domain.Order{
					ID:                7,
					UserID:            args.UserID,
					Status:            domain.OrderStatusPending,
					Network:           args.Network,
					BeneficiaryNumber: args.BeneficiaryNumber,
					TotalAmount:       args.Amount,
				}, nil
			case poorNumber:
				return nil, fmt.Errorf("checkout: %w", domain.ErrNotEnoughBalance)
			case zeroNumber:
				return nil, service.ErrInvalidAmount
			case ghostNumber:
				return nil, fmt.Errorf("checkout: %w", domain.ErrRecordNotFound)
			default:
				return nil, fmt.Errorf("unexpected beneficiary %s", args.BeneficiaryNumber)
			}
		}).Times(5)

	body := func(network, number, amount string) string {
		return fmt.Sprintf(`{"network":%q,"beneficiary_number":%q,"amount":%s}`, network, number, amount)
	}

	cases := []struct {
		name       string
		payload    string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			payload:    body("MTN", okNumber, `"20.5"`),
			jwtToken:   token,
			wantStatus: http.StatusCreated,
		}, {
			name:       "not enough balance",
			payload:    body("telecel", poorNumber, "100"),
			jwtToken:   token,
			wantStatus: http.StatusPaymentRequired,
		}, {
			name:       "zero amount",
			payload:    body("bigtime", zeroNumber, "0"),
			jwtToken:   token,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "sub-pesewa amount",
			payload:    body("bigtime", zeroNumber, `"1.005"`),
			jwtToken:   token,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "user is gone",
			payload:    body("mtn", ghostNumber, "5"),
			jwtToken:   token,
			wantStatus: http.StatusNotFound,
		}, {
			name:       "unsupported network",
			payload:    body("vodafone", okNumber, "5"),
			jwtToken:   token,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "network over bytes",
			payload:    body(testutils.MultiByteNetwork(10), okNumber, "5"),
			jwtToken:   token,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "invalid beneficiary",
			payload:    body("mtn", invalidNumber, "5"),
			jwtToken:   token,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "bad request",
			payload:    `{"network":`,
			jwtToken:   token,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "not authorized",
			payload:    body("mtn", okNumber, "5"),
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + OrdersRoute,
				Body:   strings.NewReader(t.payload),
			}, testutils.WithJSON(), testutils.WithBearer(t.jwtToken))
			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)
			if t.wantStatus == http.StatusCreated {
				var got OrderResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&got))
				s.Equal(int64(7), got.ID)
				s.Equal(domain.OrderStatusPending, got.Status)
				s.InDelta(20.5, got.Amount, 0.0001)
			}
		})
	}
}

func (s *OrderHandlerTestSuite) TestIndex() {
	var userID int64 = 1
	var noOrdersUserID int64 = 2

	reference := gofakeit.UUID()
	orders := []domain.Order{
		{
			ID:                1,
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
			UserID:            userID,
			Status:            domain.OrderStatusProcessing,
			Network:           "mtn",
			BeneficiaryNumber: "0241234567",
			TotalAmount:       decimal.NewFromInt(12),
			ReferenceID:       &reference,
		},
	}
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), userID).Return(orders, nil)
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), noOrdersUserID).Return([]domain.Order{}, nil)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			jwtToken:   s.userToken(userID),
			wantStatus: http.StatusOK,
		}, {
			name:       "not authorized",
			jwtToken:   "",
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "no orders",
			jwtToken:   s.userToken(noOrdersUserID),
			wantStatus: http.StatusNoContent,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + OrdersRoute,
			}, testutils.WithBearer(t.jwtToken))
			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)
			if t.wantStatus == http.StatusOK {
				var got []OrderResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&got))
				s.Require().Len(got, 1)
				s.Equal(reference, *got[0].ReferenceID)
			}
		})
	}
}
