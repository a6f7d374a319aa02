// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ContentNode is one entry in the content hierarchy. A nil ParentID marks
// a root node. Deleted nodes stay in storage with IsDeleted set.
type ContentNode struct {
	ID        int64     `json:"id"`
	ParentID  *int64    `json:"parent_id"`
	Type      string    `json:"type"`
	Sequence  int       `json:"sequence"`
	AudioURL  *string   `json:"audio_url"`
	VideoURL  *string   `json:"video_url"`
	CSS       *string   `json:"css"`
	DuasURL   *string   `json:"duas_url"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRoot returns true if the node has no parent.
func (c *ContentNode) IsRoot() bool {
	return c.ParentID == nil
}

// ChildNode is a ContentNode annotated with the number of its active
// immediate children. Used by the lazy-loading children listing.
type ChildNode struct {
	ContentNode
	ChildCount  int  `json:"child_count"`
	HasChildren bool `json:"has_children"`
}

// TreeRow is a ContentNode joined with one language's translation. The
// translation columns are nil when the node has no row for that language.
type TreeRow struct {
	ContentNode
	LanguageCode         *string    `json:"language_code"`
	Title                *string    `json:"title"`
	Transliteration      *string    `json:"transliteration"`
	Translation          *string    `json:"translation"`
	OriginalText         *string    `json:"original_text"`
	SearchText           *string    `json:"search_text"`
	TranslationUpdatedAt *time.Time `json:"translation_updated_at"`
}

// NewContent holds the inputs for creating a node. A nil Sequence asks the
// tree service to place the node after its current siblings.
type NewContent struct {
	ParentID *int64
	Type     string
	Sequence *int
}

// ContentPatch is a partial update of a node. Only present fields are
// written; an explicit null clears a nullable column.
type ContentPatch struct {
	ParentID Optional[int64]  `json:"parent_id"`
	Type     Optional[string] `json:"type"`
	Sequence Optional[int]    `json:"sequence"`
	AudioURL Optional[string] `json:"audio_url"`
	VideoURL Optional[string] `json:"video_url"`
	CSS      Optional[string] `json:"css"`
	DuasURL  Optional[string] `json:"duas_url"`
}

// Empty reports whether no field is present.
func (p ContentPatch) Empty() bool {
	return !p.ParentID.Present && !p.Type.Present && !p.Sequence.Present &&
		!p.AudioURL.Present && !p.VideoURL.Present && !p.CSS.Present && !p.DuasURL.Present
}

// TreeMode selects the shape of the full tree listing.
type TreeMode string

const (
	TreeModeStructure    TreeMode = "structure"
	TreeModeWithLanguage TreeMode = "with-language"
)

// DeleteResult reports the nodes soft-deleted by a cascade delete.
type DeleteResult struct {
	DeletedCount int     `json:"deleted_count"`
	DeletedIDs   []int64 `json:"deleted_ids"`
}
