package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/auth"
	"github.com/shenikar/rescue_dispatch/internal/config"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/ratelimit"
	"github.com/shenikar/rescue_dispatch/internal/service"
	"github.com/sirupsen/logrus"
)

// Services - сервисы ядра, которые обслуживает HTTP слой
type Services struct {
	Incidents   service.IncidentService
	Assignments service.AssignmentService
	Volunteers  service.VolunteerService
	Disasters   service.DisasterService
}

type Handler struct {
	incidentService   service.IncidentService
	assignmentService service.AssignmentService
	volunteerService  service.VolunteerService
	disasterService   service.DisasterService
	panicLimiter      ratelimit.Limiter
	tokens            *auth.TokenManager
	logger            *logrus.Logger
	validate          *validator.Validate
	cfg               *config.Config
}

func NewHandler(services Services, panicLimiter ratelimit.Limiter, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService:   services.Incidents,
		assignmentService: services.Assignments,
		volunteerService:  services.Volunteers,
		disasterService:   services.Disasters,
		panicLimiter:      panicLimiter,
		tokens:            auth.NewTokenManager(cfg.JWTSecret),
		logger:            logger,
		validate:          validator.New(),
		cfg:               cfg,
	}
}

// ErrorResponse тело ответа с ошибкой
// @Description Тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

const (
	codeInvalidRequest = "invalid_request"
	codeValidation     = "validation_error"
	codeForbidden      = "forbidden"
	codeConflict       = "state_conflict"
	codeNotFound       = "not_found"
	codeUnauthorized   = "unauthorized"
	codeRateLimited    = "rate_limited"
	codeInternal       = "internal_error"
)

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

// respondError переводит ошибки ядра в HTTP статусы
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		log.WithError(err).Warn("Request rejected by validation")
		abortWithError(c, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, models.ErrAuthorization):
		log.WithError(err).Warn("Caller is not authorized")
		abortWithError(c, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, models.ErrStateConflict):
		log.WithError(err).Warn("State conflict")
		abortWithError(c, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		log.WithError(err).Warn("Record not found")
		abortWithError(c, http.StatusNotFound, codeNotFound, err.Error())
	default:
		log.WithError(err).Error("Internal error")
		abortWithError(c, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// bindJSON разбирает и валидирует тело запроса, при ошибке отвечает 400
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		log.WithError(err).Warn("Validation failed")
		abortWithError(c, http.StatusBadRequest, codeValidation, err.Error())
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, log *logrus.Entry, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "invalid query parameters")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		log.WithError(err).Warn("Validation failed")
		abortWithError(c, http.StatusBadRequest, codeValidation, err.Error())
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "invalid "+name+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
