package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so transport adapters can map it to a status code
// without inspecting message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
	KindAlreadySubscribed
	KindNotSubscribed
	KindUpstream
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func AlreadySubscribed(username, topic string) *Error {
	return &Error{Kind: KindAlreadySubscribed, Msg: fmt.Sprintf("%s is already subscribed to %s", username, topic)}
}

func NotSubscribed(username, topic string) *Error {
	return &Error{Kind: KindNotSubscribed, Msg: fmt.Sprintf("%s is not subscribed to %s", username, topic)}
}

// Upstream marks a failure of an external collaborator (search index,
// completion service, push channel). Callers degrade, never crash.
func Upstream(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUpstream, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf walks the wrap chain and returns the first taxonomy kind found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the response status defined by the API surface.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindAlreadySubscribed, KindNotSubscribed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
