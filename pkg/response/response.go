package response

// Response is the JSON envelope for every API reply.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorData  `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorData describes a failed request.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// PageMeta carries pagination metadata for list responses.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Success wraps data in a successful envelope.
func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Paginated wraps a list in a successful envelope with page metadata.
func Paginated(data interface{}, page, limit int, total int64) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta:    PageMeta{Page: page, Limit: limit, Total: total},
	}
}

// Error builds a failed envelope with the given code and message.
func Error(code, message string) Response {
	return Response{Success: false, Error: &ErrorData{Code: code, Message: message}}
}

// ErrorWithDetails builds a failed envelope including details.
func ErrorWithDetails(code, message, details string) Response {
	return Response{Success: false, Error: &ErrorData{Code: code, Message: message, Details: details}}
}

func BadRequest(message string) Response {
	return Error(ErrCodeBadRequest, message)
}

func Unauthorized(message string) Response {
	return Error(ErrCodeUnauthorized, message)
}

func Forbidden(message string) Response {
	return Error(ErrCodeForbidden, message)
}

func NotFound(message string) Response {
	return Error(ErrCodeNotFound, message)
}

func Conflict(message string) Response {
	return Error(ErrCodeConflict, message)
}

func RateLimited(message string) Response {
	return Error(ErrCodeRateLimited, message)
}

func InternalError(details string) Response {
	return ErrorWithDetails(ErrCodeInternal, "Internal Server Error", details)
}
