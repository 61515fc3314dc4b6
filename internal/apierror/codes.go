package apierror

import "net/http"

// Problem type URIs used as the "type" member of every problem response
const (
	TypeValidation      = "urn:energylog:error:validation"
	TypeBadRequest      = "urn:energylog:error:bad_request"
	TypeInvalidLevel    = "urn:energylog:error:invalid_level"
	TypeInvalidUUID     = "urn:energylog:error:invalid_uuid"
	TypeFutureTimestamp = "urn:energylog:error:future_timestamp"
	TypeUnauthorized    = "urn:energylog:error:unauthorized"
	TypeConflict        = "urn:energylog:error:conflict"
	TypeRateLimit       = "urn:energylog:error:rate_limit"
	TypeInternal        = "urn:energylog:error:internal"
)

// kind binds a problem type to its fixed title and status
type kind struct {
	uri    string
	title  string
	status int
}

var (
	kindValidation      = kind{TypeValidation, "Validation Error", http.StatusBadRequest}
	kindBadRequest      = kind{TypeBadRequest, "Bad Request", http.StatusBadRequest}
	kindInvalidLevel    = kind{TypeInvalidLevel, "Invalid Energy Level", http.StatusBadRequest}
	kindInvalidUUID     = kind{TypeInvalidUUID, "Invalid UUID Format", http.StatusBadRequest}
	kindFutureTimestamp = kind{TypeFutureTimestamp, "Future Timestamp Not Allowed", http.StatusBadRequest}
	kindUnauthorized    = kind{TypeUnauthorized, "Authentication Required", http.StatusUnauthorized}
	kindConflict        = kind{TypeConflict, "Resource Conflict", http.StatusConflict}
	kindRateLimit       = kind{TypeRateLimit, "Rate Limit Exceeded", http.StatusTooManyRequests}
	kindInternal        = kind{TypeInternal, "Internal Server Error", http.StatusInternalServerError}
)
