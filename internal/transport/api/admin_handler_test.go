package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/jobs"
	"github.com/fsdevblog/bundle-reconciler/internal/logger"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/mocks"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/testutils"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockOrderService *mocks.MockOrderServicer
	mockJobs         *mocks.MockJobTrigger
	adminToken       string
	customerToken    string
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mockCtrl := gomock.NewController(s.T())

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.mockJobs = mocks.NewMockJobTrigger(mockCtrl)
	jwtSecret := []byte("super secret key")

	router, err := New(RouterArgs{
		Logger:        logger.New(io.Discard, "test"),
		OrderService:  s.mockOrderService,
		WalletService: mocks.NewMockWalletServicer(mockCtrl),
		Jobs:          s.mockJobs,
		JWTSecretKey:  jwtSecret,
	})
	s.Require().NoError(err)
	s.router = router

	s.adminToken, err = tokens.GenerateUserJWT(1, domain.UserRoleAdmin, time.Hour, jwtSecret)
	s.Require().NoError(err)
	s.customerToken, err = tokens.GenerateUserJWT(2, domain.UserRoleCustomer, time.Hour, jwtSecret)
	s.Require().NoError(err)
}

func (s *AdminHandlerTestSuite) TestSetStatus() {
	const (
		okID       int64 = 10
		conflictID int64 = 11
		terminalID int64 = 12
		invalidID  int64 = 13
		missingID  int64 = 14
	)
	pending, failed := domain.OrderStatusPending, domain.OrderStatusFailed

	s.mockOrderService.EXPECT().
		AdminSetStatus(gomock.Any(), okID, pending, failed).
		Return(&domain.Order{ID: okID, Status: failed}, nil)
	s.mockOrderService.EXPECT().
		AdminSetStatus(gomock.Any(), conflictID, pending, failed).
		Return(nil, domain.NewTransitionError(domain.ErrStatusConflict, conflictID, pending, failed))
	s.mockOrderService.EXPECT().
		AdminSetStatus(gomock.Any(), terminalID, pending, failed).
		Return(nil, domain.NewTransitionError(domain.ErrTerminalStatus, terminalID, pending, failed))
	s.mockOrderService.EXPECT().
		AdminSetStatus(gomock.Any(), invalidID, pending, failed).
		Return(nil, domain.NewTransitionError(domain.ErrInvalidStatus, invalidID, pending, failed))
	s.mockOrderService.EXPECT().
		AdminSetStatus(gomock.Any(), missingID, pending, failed).
		Return(nil, fmt.Errorf("set status: %w", domain.ErrRecordNotFound))

	params := SetStatusParams{ExpectedStatus: pending, Status: failed}

	cases := []struct {
		name       string
		id         string
		payload    any
		jwtToken   string
		wantStatus int
	}{
		{name: "all ok", id: "10", payload: params, jwtToken: s.adminToken, wantStatus: http.StatusOK},
		{name: "status changed meanwhile", id: "11", payload: params, jwtToken: s.adminToken, wantStatus: http.StatusConflict},
		{name: "terminal order", id: "12", payload: params, jwtToken: s.adminToken, wantStatus: http.StatusConflict},
		{name: "invalid target", id: "13", payload: params, jwtToken: s.adminToken, wantStatus: http.StatusUnprocessableEntity},
		{name: "order not found", id: "14", payload: params, jwtToken: s.adminToken, wantStatus: http.StatusNotFound},
		{name: "malformed id", id: "abc", payload: params, jwtToken: s.adminToken, wantStatus: http.StatusNotFound},
		{name: "missing fields", id: "10", payload: struct{}{}, jwtToken: s.adminToken, wantStatus: http.StatusBadRequest},
		{name: "customer is forbidden", id: "10", payload: params, jwtToken: s.customerToken, wantStatus: http.StatusForbidden},
		{name: "not authorized", id: "10", payload: params, wantStatus: http.StatusUnauthorized},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPatch,
				URL:    RouteGroup + strings.Replace(AdminOrderStatus, ":id", t.id, 1),
				Body:   testutils.JSONBody(t.payload),
			}, testutils.WithJSON(), testutils.WithBearer(t.jwtToken))
			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *AdminHandlerTestSuite) TestRunJob() {
	s.mockJobs.EXPECT().Trigger(jobs.JobReconcile).Return(nil)
	s.mockJobs.EXPECT().Trigger("nope").Return(fmt.Errorf("trigger: %w", jobs.ErrUnknownJob))

	cases := []struct {
		name       string
		job        string
		jwtToken   string
		wantStatus int
	}{
		{name: "all ok", job: jobs.JobReconcile, jwtToken: s.adminToken, wantStatus: http.StatusAccepted},
		{name: "unknown job", job: "nope", jwtToken: s.adminToken, wantStatus: http.StatusNotFound},
		{name: "customer is forbidden", job: jobs.JobReconcile, jwtToken: s.customerToken, wantStatus: http.StatusForbidden},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + strings.Replace(AdminJobRunRoute, ":name", t.job, 1),
			}, testutils.WithBearer(t.jwtToken))
			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}
