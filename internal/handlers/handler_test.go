// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides stub services and request helpers shared by the
// handler tests.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contentadmin/internal/auth"
	"contentadmin/internal/middleware"
	"contentadmin/internal/models"
	"contentadmin/internal/service"
)

// stubTree records the arguments it was called with and returns canned
// values.
type stubTree struct {
	err error

	parentID   *int64
	languageOf string
	created    models.NewContent
	updatedID  int64
	patch      models.ContentPatch
	deletedID  int64
	orderedIDs []int64
}

func (s *stubTree) ListChildren(_ context.Context, parentID *int64) ([]models.ChildNode, error) {
	s.parentID = parentID
	if s.err != nil {
		return nil, s.err
	}
	return []models.ChildNode{{ContentNode: models.ContentNode{ID: 2, Type: "chapter"}, ChildCount: 1, HasChildren: true}}, nil
}

func (s *stubTree) ListTree(context.Context) ([]models.ContentNode, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.ContentNode{{ID: 1, Type: "book"}, {ID: 2, Type: "chapter"}}, nil
}

func (s *stubTree) ListTreeWithLanguage(_ context.Context, lang string) ([]models.TreeRow, error) {
	s.languageOf = lang
	if s.err != nil {
		return nil, s.err
	}
	return []models.TreeRow{{ContentNode: models.ContentNode{ID: 1, Type: "book"}}}, nil
}

func (s *stubTree) Create(_ context.Context, in models.NewContent) (*models.ContentNode, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.ContentNode{ID: 9, ParentID: in.ParentID, Type: in.Type}, nil
}

func (s *stubTree) Update(_ context.Context, id int64, patch models.ContentPatch) (*models.ContentNode, error) {
	s.updatedID, s.patch = id, patch
	if s.err != nil {
		return nil, s.err
	}
	return &models.ContentNode{ID: id, Type: "updated"}, nil
}

func (s *stubTree) Delete(_ context.Context, id int64) (*models.DeleteResult, error) {
	s.deletedID = id
	if s.err != nil {
		return nil, s.err
	}
	return &models.DeleteResult{DeletedCount: 2, DeletedIDs: []int64{id, id + 1}}, nil
}

func (s *stubTree) Reorder(_ context.Context, parentID *int64, ids []int64) (int, error) {
	s.parentID, s.orderedIDs = parentID, ids
	if s.err != nil {
		return 0, s.err
	}
	return len(ids), nil
}

type stubTranslations struct {
	err    error
	saved  models.TranslationFields
	lang   string
	gotFor int64
}

func (s *stubTranslations) Get(_ context.Context, id int64) (*models.TranslationSet, error) {
	s.gotFor = id
	if s.err != nil {
		return nil, s.err
	}
	en := models.Translation{ContentID: id, LanguageCode: "en", Title: "One"}
	return &models.TranslationSet{
		ByLanguage: map[string]models.Translation{"en": en},
		Rows:       []models.Translation{en},
		Count:      1,
	}, nil
}

func (s *stubTranslations) Save(_ context.Context, id int64, lang string, f models.TranslationFields) (*models.Translation, error) {
	s.gotFor, s.lang, s.saved = id, lang, f
	if s.err != nil {
		return nil, s.err
	}
	return &models.Translation{ContentID: id, LanguageCode: lang, Title: f.Title}, nil
}

type stubExports struct {
	err       error
	download  *service.Download
	createdBy *int64
	notes     string
}

func (s *stubExports) List(context.Context) ([]models.Version, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Version{{ID: 2, VersionNumber: "1.1"}, {ID: 1, VersionNumber: "1.0"}}, nil
}

func (s *stubExports) Export(_ context.Context, number, notes string, createdBy *int64) (*service.ExportResult, error) {
	s.notes, s.createdBy = notes, createdBy
	if s.err != nil {
		return nil, s.err
	}
	return &service.ExportResult{
		Version:  &models.Version{ID: 3, VersionNumber: number},
		Filename: models.ExportFilename(number),
		Dump:     []byte("-- Content Admin Export v" + number + "\n"),
	}, nil
}

func (s *stubExports) Redownload(context.Context, int64) (*service.Download, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.download, nil
}

type stubStats struct{ err error }

func (s *stubStats) Stats(context.Context) (*models.Stats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Stats{ContentCount: 4, RootCount: 1, TypeBreakdown: []models.TypeCount{}, Languages: []models.LanguageCount{}}, nil
}

type stubAuth struct {
	err          error
	open         bool
	registered   string
	loginCode    string
	enabledCode  string
	loggedOut    *auth.Claims
	setupForUser int64
}

func (s *stubAuth) Login(_ context.Context, email, _, code string) (*service.LoginResult, error) {
	s.loginCode = code
	if s.err != nil {
		return nil, s.err
	}
	return &service.LoginResult{Token: "tok", User: models.PublicUser{ID: 1, Email: email, Role: models.RoleAdmin}}, nil
}

func (s *stubAuth) Register(_ context.Context, email, _ string) (*models.User, error) {
	s.registered = email
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: 5, Email: email, Role: models.RoleAdmin}, nil
}

func (s *stubAuth) RegistrationOpen() bool { return s.open }

func (s *stubAuth) SetupTOTP(_ context.Context, userID int64) (*auth.TOTPEnrollment, error) {
	s.setupForUser = userID
	if s.err != nil {
		return nil, s.err
	}
	return &auth.TOTPEnrollment{Secret: "JBSWY3DPEHPK3PXP", URL: "otpauth://totp/x", QRCode: "iVBOR"}, nil
}

func (s *stubAuth) EnableTOTP(_ context.Context, _ int64, code string) error {
	s.enabledCode = code
	return s.err
}

func (s *stubAuth) Logout(_ context.Context, claims *auth.Claims) error {
	s.loggedOut = claims
	return s.err
}

// do runs handler h against a request with an optional JSON body and
// optional claims in the context.
func do(t *testing.T, h http.HandlerFunc, method, target, body string, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if claims != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.ClaimsKey, claims))
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// decode unmarshals the response body into a generic map.
func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return body
}

// expectError asserts the status and the JSON error message.
func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	if got, _ := decode(t, rr)["error"].(string); got != message {
		t.Errorf("error: got %q, want %q", got, message)
	}
}
