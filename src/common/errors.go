package common

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError carries an explicit HTTP status. Anything else surfaced by a
// core operation maps to 409, mirroring the coarse catch-all the API has
// always exposed (validation 400 and auth 401 are handled at the edges).
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func NewStatusError(code int, format string, args ...any) *StatusError {
	return &StatusError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func BadRequestf(format string, args ...any) *StatusError {
	return NewStatusError(http.StatusBadRequest, format, args...)
}

func Unauthorizedf(format string, args ...any) *StatusError {
	return NewStatusError(http.StatusUnauthorized, format, args...)
}

func NotFoundf(format string, args ...any) *StatusError {
	return NewStatusError(http.StatusNotFound, format, args...)
}

// HTTPStatus resolves the response code for err: typed status errors keep
// their literal code, everything else is a 409.
func HTTPStatus(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return http.StatusConflict
}
