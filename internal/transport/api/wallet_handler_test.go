package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/logger"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/mocks"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/testutils"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type WalletHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockWalletService *mocks.MockWalletServicer
	token             string
	userID            int64
}

func TestWalletHandlerSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}

func (s *WalletHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mockCtrl := gomock.NewController(s.T())

	s.mockWalletService = mocks.NewMockWalletServicer(mockCtrl)
	jwtSecret := []byte("super secret key")

	router, err := New(RouterArgs{
		Logger:        logger.New(io.Discard, "test"),
		OrderService:  mocks.NewMockOrderServicer(mockCtrl),
		WalletService: s.mockWalletService,
		Jobs:          mocks.NewMockJobTrigger(mockCtrl),
		JWTSecretKey:  jwtSecret,
	})
	s.Require().NoError(err)
	s.router = router

	s.userID = 3
	s.token, err = tokens.GenerateUserJWT(s.userID, domain.UserRoleAgent, time.Hour, jwtSecret)
	s.Require().NoError(err)
}

func (s *WalletHandlerTestSuite) TestBalance() {
	s.Run("all ok", func() {
		s.mockWalletService.EXPECT().
			GetBalance(gomock.Any(), s.userID).
			Return(decimal.RequireFromString("42.75"), nil)

		res := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + BalanceRoute,
		}, testutils.WithBearer(s.token))
		defer func() {
			s.Require().NoError(res.Body.Close())
		}()

		s.Require().Equal(http.StatusOK, res.StatusCode)
		var got BalanceResponse
		s.Require().NoError(json.NewDecoder(res.Body).Decode(&got))
		s.InDelta(42.75, got.Current, 0.0001)
	})

	s.Run("service error", func() {
		s.mockWalletService.EXPECT().
			GetBalance(gomock.Any(), s.userID).
			Return(decimal.Zero, errors.New("db is gone"))

		res := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + BalanceRoute,
		}, testutils.WithBearer(s.token))
		defer func() {
			s.Require().NoError(res.Body.Close())
		}()

		s.Equal(http.StatusInternalServerError, res.StatusCode)
	})
}

func (s *WalletHandlerTestSuite) TestTransactions() {
	orderID := int64(11)
	txs := []domain.Transaction{
		{
			ID:        1,
			CreatedAt: time.Now(),
			OrderID:   &orderID,
			UserID:    s.userID,
			Amount:    decimal.NewFromInt(15),
			Status:    domain.TransactionStatusCompleted,
			Type:      domain.TransactionTypeOrderPayment,
			Reference: "PAY-1",
		}, {
			ID:        2,
			CreatedAt: time.Now(),
			OrderID:   &orderID,
			UserID:    s.userID,
			Amount:    decimal.NewFromInt(15),
			Status:    domain.TransactionStatusCompleted,
			Type:      domain.TransactionTypeRefund,
			Reference: "REF-1",
		},
	}

	s.Run("all ok", func() {
		s.mockWalletService.EXPECT().GetTransactions(gomock.Any(), s.userID).Return(txs, nil)

		res := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + TransactionsRoute,
		}, testutils.WithBearer(s.token))
		defer func() {
			s.Require().NoError(res.Body.Close())
		}()

		s.Require().Equal(http.StatusOK, res.StatusCode)
		var got []TransactionResponse
		s.Require().NoError(json.NewDecoder(res.Body).Decode(&got))
		s.Require().Len(got, 2)
		s.Equal(domain.TransactionTypeRefund, got[1].Type)
		s.Equal(orderID, *got[1].OrderID)
	})

	s.Run("empty", func() {
		s.mockWalletService.EXPECT().GetTransactions(gomock.Any(), s.userID).Return(nil, nil)

		res := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + TransactionsRoute,
		}, testutils.WithBearer(s.token))
		defer func() {
			s.Require().NoError(res.Body.Close())
		}()

		s.Equal(http.StatusNoContent, res.StatusCode)
	})
}
