// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON endpoints of the content admin API.
// Handlers decode and validate requests, call a service, and map its typed
// errors to HTTP statuses through httputil.
package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"contentadmin/internal/auth"
	"contentadmin/internal/domain"
	"contentadmin/internal/httputil"
	"contentadmin/internal/models"
	"contentadmin/internal/service"
)

// TreeService is the content hierarchy as seen by the handlers.
type TreeService interface {
	ListChildren(ctx context.Context, parentID *int64) ([]models.ChildNode, error)
	ListTree(ctx context.Context) ([]models.ContentNode, error)
	ListTreeWithLanguage(ctx context.Context, languageCode string) ([]models.TreeRow, error)
	Create(ctx context.Context, in models.NewContent) (*models.ContentNode, error)
	Update(ctx context.Context, id int64, patch models.ContentPatch) (*models.ContentNode, error)
	Delete(ctx context.Context, id int64) (*models.DeleteResult, error)
	Reorder(ctx context.Context, parentID *int64, orderedIDs []int64) (int, error)
}

// TranslationService reads and writes per-language content.
type TranslationService interface {
	Get(ctx context.Context, contentID int64) (*models.TranslationSet, error)
	Save(ctx context.Context, contentID int64, languageCode string, fields models.TranslationFields) (*models.Translation, error)
}

// ExportService produces SQL dumps and lists versions.
type ExportService interface {
	List(ctx context.Context) ([]models.Version, error)
	Export(ctx context.Context, versionNumber, notes string, createdBy *int64) (*service.ExportResult, error)
	Redownload(ctx context.Context, versionID int64) (*service.Download, error)
}

// StatsService reports dashboard counts.
type StatsService interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// AuthService handles credentials and 2FA.
type AuthService interface {
	Login(ctx context.Context, email, password, code string) (*service.LoginResult, error)
	Register(ctx context.Context, email, password string) (*models.User, error)
	RegistrationOpen() bool
	SetupTOTP(ctx context.Context, userID int64) (*auth.TOTPEnrollment, error)
	EnableTOTP(ctx context.Context, userID int64, code string) error
	Logout(ctx context.Context, claims *auth.Claims) error
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MethodNotAllowed is the JSON 405 used by the router.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// NotFound is the JSON 404 used by the router.
func NotFound(w http.ResponseWriter, r *http.Request) {
	httputil.RespondError(w, http.StatusNotFound, "Not found")
}

// validate runs ozzo validation and reports the first failing field (in
// field-name order) as a domain ValidationError.
func validate(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	if !ok || len(errs) == 0 {
		return domain.Validationf("%s", err.Error())
	}

	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return domain.Validationf("%s", errs[fields[0]].Error())
}

// parseNullableID reads an optional integer ID from a query parameter.
// Empty, "null" and "undefined" mean no ID.
func parseNullableID(raw, name string) (*int64, error) {
	switch strings.TrimSpace(raw) {
	case "", "null", "undefined":
		return nil, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return nil, domain.Validationf("%s must be a positive integer.", name)
	}
	return &id, nil
}

// parseRequiredID reads a positive integer ID from a query parameter.
func parseRequiredID(raw, message string) (int64, error) {
	id, err := parseNullableID(raw, "id")
	if err != nil || id == nil {
		return 0, domain.Validationf("%s", message)
	}
	return *id, nil
}
