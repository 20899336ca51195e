package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory defines the type of error for proper handling
type ErrorCategory string

const (
	// CategoryMalformed: the payload is not parseable structured data at
	// all. Client error, never retried.
	CategoryMalformed ErrorCategory = "malformed_input"
	// CategoryValidation: one or more fields missing or out of range.
	// Client error carrying the full per-field report.
	CategoryValidation ErrorCategory = "validation"
	// CategoryInvariant: a programming error inside the pipeline, such as
	// reading a derived property before derivation. Fatal to the request
	// and never masked as a client error.
	CategoryInvariant     ErrorCategory = "invariant_violation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInternal      ErrorCategory = "internal"
)

// AppError wraps an errbuilder error with the category and HTTP status
// the transport layer needs.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory     `json:"category"`
	HTTPStatus int               `json:"http_status"`
	Timestamp  time.Time         `json:"timestamp"`
	Fields     map[string]string `json:"fields,omitempty"`
	StackTrace string            `json:"stack_trace,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	codeStr := "UNKNOWN_ERROR"
	switch e.ErrBuilder.ErrCode() {
	case errbuilder.CodeInvalidArgument:
		codeStr = "VALIDATION_ERROR"
	case errbuilder.CodeInternal:
		codeStr = "INTERNAL_ERROR"
	case errbuilder.CodeFailedPrecondition:
		codeStr = "CONFIGURATION_ERROR"
	}
	return fmt.Sprintf("[%s] %s", codeStr, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// Payload is the JSON body sent to the caller. Invariant and internal
// errors deliberately expose no detail beyond the category.
func (e *AppError) Payload() gin.H {
	body := gin.H{
		"error":    e.ErrBuilder.Msg,
		"category": e.Category,
	}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}
	return body
}

// NewAppError creates an AppError from errbuilder with additional context
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewMalformedInputError reports a payload that is not valid JSON at all.
func NewMalformedInputError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryMalformed, http.StatusBadRequest)
}

// NewValidationErrorWithMap reports every failing field at once, so the
// caller can fix all issues in one round-trip.
func NewValidationErrorWithMap(fieldErrors map[string]string) *AppError {
	errMap := errbuilder.ErrorMap{}
	for field, message := range fieldErrors {
		errMap.Set(field, errors.New(message))
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("payload does not conform to the credit record schema").
		WithDetails(errbuilder.NewErrDetails(errMap))

	appErr := NewAppError(builder, CategoryValidation, http.StatusBadRequest)
	appErr.Fields = fieldErrors
	return appErr
}

// NewInvariantError reports a pipeline programming error. It must never
// be reported as a validation failure; masking it as a client error would
// hide real bugs.
func NewInvariantError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	appErr := NewAppError(builder, CategoryInvariant, http.StatusInternalServerError)
	if gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode {
		appErr.StackTrace = captureStackTrace()
	}
	return appErr
}

// NewConfigurationError reports a startup misconfiguration, such as a
// model artifact whose input widths disagree with the schema.
func NewConfigurationError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryConfiguration, http.StatusInternalServerError)
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("internal_details", errors.New(message))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("Internal server error").
		WithDetails(errbuilder.NewErrDetails(errorMap))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	appErr := NewAppError(builder, CategoryInternal, http.StatusInternalServerError)
	if gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode {
		appErr.StackTrace = captureStackTrace()
	}
	return appErr
}

// captureStackTrace captures a stack trace for debugging
func captureStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// ErrorHandler is a Gin middleware that provides centralized error handling
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			appErr := ToAppError(err)
			LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr.Payload())
		}
	}
}

// RecoveryHandler provides panic recovery with structured error responses
func RecoveryHandler() gin.HandlerFunc {
	return gin.RecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("Panic recovered: %v", err),
			fmt.Errorf("%v", err),
		)
		appErr.StackTrace = captureStackTrace()

		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr.Payload())
	})
}

// ToAppError converts any error to an AppError
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if ebErr, ok := err.(*errbuilder.ErrBuilder); ok {
		return NewAppError(ebErr, CategoryInternal, http.StatusInternalServerError)
	}

	return NewInternalError("An unexpected error occurred", err)
}

// LogError logs an error with appropriate level and context
func LogError(c *gin.Context, err *AppError) {
	logEntry := slog.With(
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetHeader("X-Request-ID"),
	)

	switch err.Category {
	case CategoryMalformed:
		logEntry.Warn(err.ErrBuilder.Msg)
	case CategoryValidation:
		logEntry.Warn(err.ErrBuilder.Msg, "fields", sortedKeys(err.Fields))
	case CategoryInvariant, CategoryConfiguration:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			logEntry.Error(err.ErrBuilder.Msg)
		}
	default:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			logEntry.Error(err.ErrBuilder.Msg)
		}
	}

	if err.StackTrace != "" && (gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode) {
		logEntry.Debug("stack_trace", "trace", err.StackTrace)
	}
}

// IsClientError reports whether the error is the caller's fault and must
// not page anyone.
func IsClientError(err error) bool {
	appErr := ToAppError(err)
	if appErr == nil {
		return false
	}
	switch appErr.Category {
	case CategoryMalformed, CategoryValidation:
		return true
	default:
		return false
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(message, args...), err)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
