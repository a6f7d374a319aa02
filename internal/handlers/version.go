// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"contentadmin/internal/httputil"
	"contentadmin/internal/middleware"
	"contentadmin/internal/service"
)

// Versions groups the export and version history endpoints.
type Versions struct {
	svc ExportService
}

// NewVersions creates the version handler group.
func NewVersions(svc ExportService) *Versions {
	return &Versions{svc: svc}
}

type exportRequest struct {
	VersionNumber string `json:"version_number"`
	Notes         string `json:"notes"`
}

func (r exportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VersionNumber,
			validation.Required.Error("version_number is required."),
			validation.Length(0, 50).Error("version_number is too long (max 50 characters)."),
		),
		validation.Field(&r.Notes, validation.Length(0, 2000).Error("Notes are too long (max 2,000 characters).")),
	)
}

// List returns all versions, newest first.
func (h *Versions) List(w http.ResponseWriter, r *http.Request) {
	versions, err := h.svc.List(r.Context())
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"versions": versions, "count": len(versions)})
}

// Export snapshots the tree as a new version and streams the dump back.
func (h *Versions) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	if err := validate(req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	var createdBy *int64
	if claims := middleware.ClaimsFromCtx(r.Context()); claims != nil {
		createdBy = &claims.UserID
	}

	res, err := h.svc.Export(r.Context(), req.VersionNumber, req.Notes, createdBy)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	writeDump(w, res.Filename, res.Dump)
}

// Download re-serves a version: a redirect to the stored artifact, or a
// dump regenerated from the current tree.
func (h *Versions) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseRequiredID(r.URL.Query().Get("id"), "Version ID is required.")
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	dl, err := h.svc.Redownload(r.Context(), id)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	if dl.RedirectURL != "" {
		http.Redirect(w, r, dl.RedirectURL, http.StatusFound)
		return
	}
	writeDump(w, dl.Filename, dl.Dump)
}

func writeDump(w http.ResponseWriter, filename string, dump []byte) {
	h := w.Header()
	h.Set("Content-Type", service.DumpContentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Content-Length", strconv.Itoa(len(dump)))
	w.WriteHeader(http.StatusOK)
	w.Write(dump)
}
