// Package apperr contiene los errores visibles para el usuario: fallos estructurales de una
// fuente, configuración o transporte. Los fallos por fila nunca llegan aquí.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

type Category string

const (
	CategoryStructure     Category = "structure"
	CategoryValidation    Category = "validation"
	CategoryUpstream      Category = "upstream"
	CategoryConfiguration Category = "configuration"
	CategoryRateLimit     Category = "rate_limit"
	CategoryAuth          Category = "auth"
)

type Error struct {
	*errbuilder.ErrBuilder
	Category   Category `json:"category"`
	HTTPStatus int      `json:"-"`
}

func (e *Error) Error() string { return e.ErrBuilder.Msg }

func (e *Error) Unwrap() error { return e.ErrBuilder.Unwrap() }

func newError(b *errbuilder.ErrBuilder, c Category, status int) *Error {
	return &Error{ErrBuilder: b, Category: c, HTTPStatus: status}
}

// MissingColumn: la cabecera de la fuente no trae una columna obligatoria.
func MissingColumn(source, column string) *Error {
	details := errbuilder.ErrorMap{}
	details.Set("source", errors.New(source))
	details.Set("column", errors.New(column))
	b := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("source %q is missing required column %q", source, column)).
		WithDetails(errbuilder.NewErrDetails(details))
	return newError(b, CategoryStructure, http.StatusUnprocessableEntity)
}

func Validation(msg string) *Error {
	b := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
	return newError(b, CategoryValidation, http.StatusBadRequest)
}

func Upstream(what string, cause error) *Error {
	b := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(fmt.Sprintf("%s unavailable", what))
	if cause != nil {
		b = b.WithCause(cause)
	}
	return newError(b, CategoryUpstream, http.StatusBadGateway)
}

func Configuration(msg string) *Error {
	b := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(msg)
	return newError(b, CategoryConfiguration, http.StatusServiceUnavailable)
}

func RateLimited(msg string) *Error {
	b := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg(msg)
	return newError(b, CategoryRateLimit, http.StatusTooManyRequests)
}

// Unauthorized: falta el secreto compartido de los endpoints que modifican datos o no coincide.
func Unauthorized() *Error {
	b := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("missing or invalid dashboard secret")
	return newError(b, CategoryAuth, http.StatusUnauthorized)
}

// Status devuelve el código HTTP de err, 500 si no es un *Error.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus
	}
	return http.StatusInternalServerError
}

func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}
