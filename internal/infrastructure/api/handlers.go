package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eliz29ese/hackUDC26/internal/application"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
	"github.com/eliz29ese/hackUDC26/internal/profile"
	"github.com/eliz29ese/hackUDC26/internal/window"
)

type APIHandler struct {
	evaluations   *application.EvaluationService
	profileStore  ports.ProfileStore
	resolver      *profile.Resolver
	defaultMethod window.Method
	logger        logger.Logger
}

func NewAPIHandler(evaluations *application.EvaluationService, profileStore ports.ProfileStore, resolver *profile.Resolver, defaultMethod window.Method, log logger.Logger) *APIHandler {
	return &APIHandler{
		evaluations:   evaluations,
		profileStore:  profileStore,
		resolver:      resolver,
		defaultMethod: defaultMethod,
		logger:        log.WithField("component", "api_handler"),
	}
}

// EvaluateRequest is the wire form of one evaluate call. Start defaults to
// the current hour; duration defaults to 24 hours.
type EvaluateRequest struct {
	LocationID       string                `json:"location_id" binding:"required"`
	UserID           string                `json:"user_id"`
	Profile          *entities.UserProfile `json:"profile"`
	Start            *time.Time            `json:"start"`
	DurationHours    int                   `json:"duration_hours"`
	GranularityHours int                   `json:"granularity_hours"`
	Method           string                `json:"method"`
	Indices          []string              `json:"indices"`
}

func (h *APIHandler) Evaluate(c *gin.Context) {
	ctx := c.Request.Context()

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	start := time.Now().UTC().Truncate(time.Hour)
	if req.Start != nil {
		start = req.Start.UTC()
	}
	duration := 24 * time.Hour
	if req.DurationHours > 0 {
		duration = time.Duration(req.DurationHours) * time.Hour
	}
	method := window.Method(req.Method)
	if method == "" {
		method = h.defaultMethod
	}

	result, err := h.evaluations.Evaluate(ctx, application.EvaluationRequest{
		LocationID:  req.LocationID,
		UserID:      req.UserID,
		Profile:     req.Profile,
		Start:       start,
		Duration:    duration,
		Granularity: time.Duration(req.GranularityHours) * time.Hour,
		Method:      method,
		Indices:     req.Indices,
	})
	if err != nil {
		h.respondEvaluationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) respondEvaluationError(c *gin.Context, err error) {
	var cfgErr entities.ConfigurationError
	var valErr entities.ValidationError
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		h.respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		// a newer request for the same location superseded this one
		h.respondError(c, http.StatusConflict, "evaluation superseded by a newer request")
	default:
		h.respondError(c, http.StatusInternalServerError, fmt.Sprintf("evaluation failed: %v", err))
	}
}

func (h *APIHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("id")

	stored, err := h.profileStore.Get(ctx, userID)
	var notFound ports.ErrNotFound
	if errors.As(err, &notFound) {
		h.respondError(c, http.StatusNotFound, fmt.Sprintf("profile %s not found", userID))
		return
	}
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, fmt.Sprintf("failed to load profile: %v", err))
		return
	}

	c.JSON(http.StatusOK, stored)
}

func (h *APIHandler) PutProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("id")

	var userProfile entities.UserProfile
	if err := c.ShouldBindJSON(&userProfile); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid profile body: %v", err))
		return
	}
	userProfile.UserID = userID

	// resolve to validate before persisting anything
	if _, err := h.resolver.Resolve(userProfile); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.profileStore.Put(ctx, userProfile); err != nil {
		h.respondError(c, http.StatusInternalServerError, fmt.Sprintf("failed to store profile: %v", err))
		return
	}

	c.JSON(http.StatusOK, userProfile)
}

func (h *APIHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	health := HealthResponse{
		Status: "healthy",
		Time:   time.Now(),
		Services: map[string]string{
			"api":    "healthy",
			"stores": "unknown",
		},
	}

	if err := h.evaluations.HealthCheck(ctx); err != nil {
		health.Status = "degraded"
		health.Services["stores"] = fmt.Sprintf("unhealthy: %v", err)
	} else {
		health.Services["stores"] = "healthy"
	}

	c.JSON(http.StatusOK, health)
}

func (h *APIHandler) respondError(c *gin.Context, status int, message string) {
	h.logger.Errorf("HTTP %d: %s", status, message)
	c.JSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Time:    time.Now(),
	})
}

type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Time     time.Time         `json:"time"`
	Services map[string]string `json:"services"`
}
