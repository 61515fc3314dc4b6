package apierror

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the MIME type for RFC 9457 Problem Details.
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes the problem with its status and, for 429s, Retry-After
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	c.Header("Content-Type", ContentTypeProblemJSON)
	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}
	c.JSON(problem.Status, problem)
}

// GetRequestID returns the ID set by the request logger, falling back to the
// raw X-Request-ID header
func GetRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// NewValidationError reports every rejected field at once
func NewValidationError(requestID string, errors []FieldError) *ProblemDetails {
	p := newProblem(kindValidation, requestID,
		"One or more fields failed validation",
		"Please check your input and try again")
	p.Errors = errors
	return p
}

// NewBadRequestError is for bodies that could not be parsed at all
func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	return newProblem(kindBadRequest, requestID, detail, userMessage)
}

// NewInvalidLevelError rejects an energy level outside 1..5
func NewInvalidLevelError(requestID string, level int) *ProblemDetails {
	p := newProblem(kindInvalidLevel, requestID,
		fmt.Sprintf("Energy level %d is outside the allowed range 1..5", level),
		"Pick an energy level between 1 and 5")
	p.Errors = []FieldError{{Field: "level", Message: "must be between 1 and 5", Code: "invalid_level"}}
	return p
}

// NewInvalidUUIDError rejects a client-minted ID that is not a UUIDv7
func NewInvalidUUIDError(requestID, field, value string) *ProblemDetails {
	p := newProblem(kindInvalidUUID, requestID,
		fmt.Sprintf("Invalid UUID format for field '%s': '%s'", field, value),
		"Invalid identifier format")
	p.Errors = []FieldError{{Field: field, Message: "must be a valid UUIDv7", Code: "invalid_uuid"}}
	return p
}

// NewFutureTimestampError rejects a timestamp beyond the allowed clock skew
func NewFutureTimestampError(requestID, field string) *ProblemDetails {
	p := newProblem(kindFutureTimestamp, requestID,
		fmt.Sprintf("Field '%s' contains a timestamp more than 1 minute in the future", field),
		"The timestamp is too far in the future")
	p.Errors = []FieldError{{Field: field, Message: "timestamp cannot be more than 1 minute in the future", Code: "future_timestamp"}}
	return p
}

// NewUnauthorizedError asks the client to sign in again
func NewUnauthorizedError(requestID string) *ProblemDetails {
	p := newProblem(kindUnauthorized, requestID,
		"Authentication is required to access this resource",
		"Please sign in to continue")
	p.Action = "authenticate"
	return p
}

// NewConflictError reports an append that collides with an existing entry ID
func NewConflictError(requestID, detail string) *ProblemDetails {
	return newProblem(kindConflict, requestID, detail,
		"This entry was already saved")
}

// NewRateLimitError tells the client how many seconds to wait
func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	p := newProblem(kindRateLimit, requestID,
		fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds", retryAfter),
		"Too many requests. Please wait before trying again.")
	p.RetryAfter = &retryAfter
	p.Action = "retry"
	return p
}

// NewInternalError never carries the underlying error; log it server-side
func NewInternalError(requestID string) *ProblemDetails {
	return newProblem(kindInternal, requestID,
		"An unexpected error occurred",
		"Something went wrong. Please try again later.")
}
