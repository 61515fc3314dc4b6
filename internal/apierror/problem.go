// Package apierror renders every API failure as an RFC 9457 problem
// document (https://www.rfc-editor.org/rfc/rfc9457.html).
package apierror

// ProblemDetails is the body of every non-2xx API response
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// RequestID echoes X-Request-ID so clients can quote it in bug reports
	RequestID string `json:"request_id,omitempty"`
	// UserMessage is safe to show in the app as-is
	UserMessage string `json:"user_message,omitempty"`
	// RetryAfter is also sent as the Retry-After header
	RetryAfter *int `json:"retry_after,omitempty"`
	// Action hints the client what to do next, e.g. "authenticate"
	Action string       `json:"action,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError points at one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

func newProblem(k kind, requestID, detail, userMessage string) *ProblemDetails {
	return &ProblemDetails{
		Type:        k.uri,
		Title:       k.title,
		Status:      k.status,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: userMessage,
	}
}
