package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/JonnyWalker81/energylog/backend/internal/analytics"
	"github.com/JonnyWalker81/energylog/backend/internal/apierror"
	"github.com/JonnyWalker81/energylog/backend/internal/logger"
	"github.com/JonnyWalker81/energylog/backend/internal/models"
	"github.com/JonnyWalker81/energylog/backend/internal/repository"
	"github.com/JonnyWalker81/energylog/backend/internal/service"
)

type EnergyLogHandler struct {
	energyLogService service.EnergyLogService
}

// NewEnergyLogHandler creates a new energy log handler
func NewEnergyLogHandler(energyLogService service.EnergyLogService) *EnergyLogHandler {
	return &EnergyLogHandler{
		energyLogService: energyLogService,
	}
}

// LogEnergy handles POST /api/v1/energy-logs
func (h *EnergyLogHandler) LogEnergy(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	requestID := apierror.GetRequestID(c)

	var req models.CreateEnergyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, bindingProblem(requestID, &req, err))
		return
	}

	resp, err := h.energyLogService.LogEnergy(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, analytics.ErrInvalidLevel):
			apierror.WriteProblem(c, apierror.NewInvalidLevelError(requestID, req.Level))
		case errors.Is(err, service.ErrInvalidUUID), errors.Is(err, service.ErrNotUUIDv7):
			apierror.WriteProblem(c, apierror.NewInvalidUUIDError(requestID, "id", derefString(req.ID)))
		case errors.Is(err, service.ErrFutureTimestamp):
			apierror.WriteProblem(c, apierror.NewFutureTimestampError(requestID, inputField(err)))
		case errors.Is(err, repository.ErrDuplicateEntry):
			apierror.WriteProblem(c, apierror.NewConflictError(requestID, "An energy log with this ID already exists"))
		default:
			logger.Ctx(c.Request.Context()).Error("failed to log energy", logger.Err(err))
			apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetEnergyLogs handles GET /api/v1/energy-logs
func (h *EnergyLogHandler) GetEnergyLogs(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	requestID := apierror.GetRequestID(c)

	var fieldErrors []apierror.FieldError
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   "limit",
			Message: "must be an integer",
			Code:    "invalid_type",
		})
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   "offset",
			Message: "must be an integer",
			Code:    "invalid_type",
		})
	}
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	logs, err := h.energyLogService.GetUserLogs(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to get energy logs", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, logs)
}

// requireUser reads the user set by the auth middleware and writes a 401 when absent
func requireUser(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return "", false
	}
	return userID, true
}

// bindingProblem turns a gin binding failure into a problem response.
// Level violations get the dedicated invalid-level problem.
func bindingProblem(requestID string, req *models.CreateEnergyLogRequest, err error) *apierror.ProblemDetails {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format")
	}

	fieldErrors := make([]apierror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		if fe.StructField() == "Level" {
			return apierror.NewInvalidLevelError(requestID, req.Level)
		}
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: validationMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return apierror.NewValidationError(requestID, fieldErrors)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}

// inputField names the request field a service rejection refers to
func inputField(err error) string {
	var inputErr *service.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Field
	}
	return "timestamp"
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
