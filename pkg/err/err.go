package errprocess

import (
	"errors"
	"net/http"

	"media_upload_service/pkg/logger"

	"go.uber.org/zap"
)

// Kind classify a failure so transports can map it to a status
type Kind string

const (
	// Unauthorized no or invalid session
	Unauthorized Kind = "unauthorized"
	// BadInput missing / invalid file or oversized file
	BadInput Kind = "bad_input"
	// UpstreamFailure transformation service error, timeout or malformed response
	UpstreamFailure Kind = "upstream_failure"
	// PersistenceFailure store read / write error
	PersistenceFailure Kind = "persistence_failure"
	// ClientNetworkFailure upload or download failure seen by the client
	ClientNetworkFailure Kind = "client_network_failure"
)

// AppError error carrying a Kind and the message shown to the caller
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Set log the message and return it as an AppError of kind
func Set(kind Kind, errMsg string, cause error) error {
	fields := []zap.Field{zap.String("kind", string(kind))}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	logger.Log.Error(errMsg, fields...)
	return &AppError{Kind: kind, Message: errMsg, Err: cause}
}

// New build an AppError without logging it
func New(kind Kind, errMsg string) error {
	return &AppError{Kind: kind, Message: errMsg}
}

// KindOf return the Kind of err, UpstreamFailure for unclassified errors
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return UpstreamFailure
}

// Is report whether err is an AppError of kind
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// StatusCode map err to the HTTP status the endpoints answer with
func StatusCode(err error) int {
	switch KindOf(err) {
	case Unauthorized:
		return http.StatusUnauthorized
	case BadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
