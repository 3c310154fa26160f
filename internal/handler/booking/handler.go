package booking

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/appointment-booking/internal/model"
	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
	"github.com/jwalitptl/appointment-booking/pkg/httputil"
)

type Service interface {
	Book(ctx context.Context, patientName, doctorName, rawSlot string, waitlist bool) (*model.Booking, error)
	Booking(ctx context.Context, bookingID int) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID int) (*model.Booking, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the booking routes. createMiddleware runs in front of
// POST /bookings only.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, createMiddleware ...gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", append(createMiddleware, h.CreateBooking)...)
		bookings.GET("/:id", h.GetBooking)
		bookings.DELETE("/:id", h.CancelBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	booking, err := h.service.Book(c.Request.Context(), req.Patient, req.Doctor, req.Slot, req.Waitlist)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, booking)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	booking, err := h.service.Booking(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, booking)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, booking)
}

func bookingID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apperrors.BadRequest("invalid booking ID", err)
	}
	return id, nil
}
