// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"contentadmin/internal/httputil"
	"contentadmin/internal/models"
)

// Content groups the tree endpoints.
type Content struct {
	tree TreeService
}

// NewContent creates the content handler group.
func NewContent(tree TreeService) *Content {
	return &Content{tree: tree}
}

type createRequest struct {
	ParentID *int64 `json:"parent_id"`
	Type     string `json:"type"`
	Sequence *int   `json:"sequence"`
}

func (r createRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type,
			validation.Required.Error("Content type is required."),
			validation.Length(0, 100).Error("Content type is too long (max 100 characters)."),
		),
		validation.Field(&r.ParentID, validation.NilOrNotEmpty.Error("Parent content not found.")),
	)
}

type updateRequest struct {
	ID int64 `json:"id"`
	models.ContentPatch
}

func (r updateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required.Error("Content ID is required.")),
	)
}

type deleteRequest struct {
	ID int64 `json:"id"`
}

func (r deleteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required.Error("Content ID is required.")),
	)
}

type reorderRequest struct {
	ParentID   *int64  `json:"parent_id"`
	OrderedIDs []int64 `json:"ordered_ids"`
}

func (r reorderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderedIDs, validation.Required.Error("ordered_ids array is required.")),
	)
}

// Children lists the active children of ?parent_id (roots when absent).
func (h *Content) Children(w http.ResponseWriter, r *http.Request) {
	parentID, err := parseNullableID(r.URL.Query().Get("parent_id"), "parent_id")
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	rows, err := h.tree.ListChildren(r.Context(), parentID)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"rows": rows, "count": len(rows)})
}

// Tree lists every active node. With mode=with-language and a
// language_code each row carries that language's translation.
func (h *Content) Tree(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := models.TreeMode(q.Get("mode"))
	lang := strings.TrimSpace(q.Get("language_code"))

	if mode == models.TreeModeWithLanguage && lang != "" {
		rows, err := h.tree.ListTreeWithLanguage(r.Context(), lang)
		if err != nil {
			httputil.RespondErr(w, r, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"rows": rows, "count": len(rows)})
		return
	}

	rows, err := h.tree.ListTree(r.Context())
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"rows": rows, "count": len(rows)})
}

// Create adds a node.
func (h *Content) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	if err := validate(req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	node, err := h.tree.Create(r.Context(), models.NewContent{
		ParentID: req.ParentID,
		Type:     req.Type,
		Sequence: req.Sequence,
	})
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, map[string]any{"success": true, "id": node.ID, "row": node})
}

// Update applies a partial update. Fields absent from the body are left
// alone; explicit nulls clear nullable columns.
func (h *Content) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	if err := validate(req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	node, err := h.tree.Update(r.Context(), req.ID, req.ContentPatch)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "row": node})
}

// Delete soft-deletes a node and its descendants.
func (h *Content) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	if err := validate(req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	res, err := h.tree.Delete(r.Context(), req.ID)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"deleted_count": res.DeletedCount,
		"deleted_ids":   res.DeletedIDs,
	})
}

// Reorder renumbers siblings in the given order.
func (h *Content) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	if err := validate(req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	n, err := h.tree.Reorder(r.Context(), req.ParentID, req.OrderedIDs)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "reordered_count": n})
}
