// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package domain holds the error taxonomy shared by services and handlers.
// Services return these typed errors; handlers map them to HTTP statuses
// through the HTTPError interface.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is implemented by errors that carry their own HTTP status.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinels for errors.Is matching.
var (
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrTransientStore = errors.New("transient store error")
)

type (
	// ValidationError indicates malformed or missing input.
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates a missing or invalid credential.
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the caller lacks the required role.
	ForbiddenError struct {
		Message string
	}

	// NotFoundError indicates the referenced entity is absent or soft-deleted.
	NotFoundError struct {
		Message string
	}

	// ConflictError indicates a duplicate unique key.
	ConflictError struct {
		Message string
	}
)

func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ConflictError) Error() string     { return e.Message }

func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ConflictError) StatusCode() int     { return http.StatusConflict }

func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ConflictError) Is(target error) bool     { return target == ErrConflict }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFoundError with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a ConflictError with a formatted message.
func Conflictf(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// StatusOf returns the HTTP status for err: the status of the first
// HTTPError in its chain, or 500 for anything else.
func StatusOf(err error) int {
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}
