//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/handler/api"
	"venue-booking-gateway/internal/handler/httperr"
	resdto "venue-booking-gateway/internal/handler/dto/response"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/usecase/commands"
	"venue-booking-gateway/internal/usecase/queries"
	"venue-booking-gateway/tests/common/builder"
	"venue-booking-gateway/tests/common/httptest"
	commandsmock "venue-booking-gateway/tests/mock/commands"
	queriesmock "venue-booking-gateway/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.router.GET("/api/bookings/:id", s.handler.Get)
	s.router.PATCH("/api/bookings/:id/status", s.handler.ChangeStatus)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	s.Run("success: returns the booking view", func() {
		b, err := builder.NewBookingBuilder().BuildDomain()
		s.Require().NoError(err)
		view := queries.ToBookingView(b, booking.MaxPaymentRetries)
		s.mockQueries.EXPECT().GetView(gomock.Any(), "B1").Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/B1", nil, "")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("B1", body.ID)
		s.Equal(int64(70800), body.TotalMinor)
		s.Equal("pending", body.Status)
		s.ElementsMatch([]string{"accept", "reject"}, body.AllowedActions)
	})

	s.Run("error: 404 when the server has no such booking", func() {
		notFound := errs.Mark(errs.New("GET /bookings/B9: 404"), errs.ErrBookingNotFound)
		s.mockQueries.EXPECT().GetView(gomock.Any(), "B9").Return(nil, notFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/B9", nil, "")

		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound, "")
	})

	s.Run("error: 401 when the session ended during renewal", func() {
		ended := errs.Mark(errs.New("refresh rejected"), errs.ErrRenewalFailed)
		s.mockQueries.EXPECT().GetView(gomock.Any(), "B1").Return(nil, ended).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/B1", nil, "")

		httptest.AssertErrorCode(s.T(), rec, http.StatusUnauthorized, httperr.CodeSessionTerminated, "log in again")
	})
}

// ================================================================================
// TestChangeStatus
// ================================================================================

func (s *BookingHandlerTestSuite) TestChangeStatus() {
	url := "/api/bookings/B1/status"

	s.Run("success: returns the server reported status", func() {
		b, err := builder.NewBookingBuilder().BuildDomain()
		s.Require().NoError(err)
		s.mockQueries.EXPECT().Load(gomock.Any(), "B1").Return(b, nil).Times(1)
		s.mockCommands.EXPECT().ChangeStatus(gomock.Any(), b, booking.ActionAccept).
			Return(&commands.StatusChange{
				BookingID: "B1",
				Requested: booking.StatusConfirmed,
				Reported:  booking.StatusConfirmed,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"action": "accept"}, "")

		var body resdto.StatusChangeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
		s.False(body.Corrected)
	})

	s.Run("success: reports a server correction", func() {
		b, err := builder.NewBookingBuilder().BuildDomain()
		s.Require().NoError(err)
		s.mockQueries.EXPECT().Load(gomock.Any(), "B1").Return(b, nil).Times(1)
		s.mockCommands.EXPECT().ChangeStatus(gomock.Any(), b, booking.ActionReject).
			Return(&commands.StatusChange{
				BookingID: "B1",
				Requested: booking.StatusCancelled,
				Reported:  booking.StatusConfirmed,
				Corrected: true,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"action": "reject"}, "")

		var body resdto.StatusChangeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Requested)
		s.Equal("confirmed", body.Status)
		s.True(body.Corrected)
	})

	s.Run("error: 400 on unknown or missing action", func() {
		for _, body := range []map[string]any{{"action": "archive"}, {}} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		}
	})

	s.Run("error: 409 on an illegal transition", func() {
		b, err := builder.NewBookingBuilder().WithStatus(booking.StatusCompleted).BuildDomain()
		s.Require().NoError(err)
		_, transitionErr := booking.Transition(booking.StatusCompleted, booking.ActionAccept)
		s.mockQueries.EXPECT().Load(gomock.Any(), "B1").Return(b, nil).Times(1)
		s.mockCommands.EXPECT().ChangeStatus(gomock.Any(), b, booking.ActionAccept).
			Return(nil, errs.WithReason(transitionErr, "This booking cannot be accepted in its current state.")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"action": "accept"}, "")

		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, httperr.CodeTransition, "cannot be accepted")
	})

	s.Run("error: 502 when the server is unreachable", func() {
		down := errs.Mark(errs.New("dial tcp: connection refused"), errs.ErrUpstreamUnavailable)
		s.mockQueries.EXPECT().Load(gomock.Any(), "B1").Return(nil, down).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"action": "accept"}, "")

		httptest.AssertErrorCode(s.T(), rec, http.StatusBadGateway, httperr.CodeUpstream, "")
	})
}
