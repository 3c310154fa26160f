package doctor

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/appointment-booking/internal/model"
	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
	"github.com/jwalitptl/appointment-booking/pkg/httputil"
)

type Service interface {
	RegisterDoctor(ctx context.Context, name, specialty string, rating int) (*model.Doctor, error)
	DeclareAvailability(ctx context.Context, doctorName string, rawSlots []string) (*model.AvailabilityReport, error)
	Doctor(ctx context.Context, name string) (*model.Doctor, error)
	RankBySpecialty(ctx context.Context, specialty string) []model.DoctorRating
	ListAvailability(ctx context.Context, specialty string, strategy model.RankingStrategy) ([]model.AvailabilityRow, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.RegisterDoctor)
		doctors.GET("/:name", h.GetDoctor)
		doctors.POST("/:name/availability", h.DeclareAvailability)
	}

	specialties := r.Group("/specialties/:specialty")
	{
		specialties.GET("/doctors", h.RankDoctors)
		specialties.GET("/availability", h.ListAvailability)
	}
}

func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req model.RegisterDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	doctor, err := h.service.RegisterDoctor(c.Request.Context(), req.Name, req.Specialty, req.Rating)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, doctor)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	doctor, err := h.service.Doctor(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, doctor)
}

// DeclareAvailability answers 200 even when some slots were rejected; the
// report lists them.
func (h *Handler) DeclareAvailability(c *gin.Context) {
	var req model.DeclareAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	report, err := h.service.DeclareAvailability(c.Request.Context(), c.Param("name"), req.Slots)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, report)
}

func (h *Handler) RankDoctors(c *gin.Context) {
	ranked := h.service.RankBySpecialty(c.Request.Context(), c.Param("specialty"))
	httputil.RespondWithSuccess(c, http.StatusOK, ranked)
}

func (h *Handler) ListAvailability(c *gin.Context) {
	strategy := model.RankingStrategy(c.DefaultQuery("strategy", string(model.RankByStartTime)))

	rows, err := h.service.ListAvailability(c.Request.Context(), c.Param("specialty"), strategy)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, rows)
}
