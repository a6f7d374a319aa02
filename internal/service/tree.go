// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"contentadmin/internal/cache"
	"contentadmin/internal/domain"
	"contentadmin/internal/models"
)

// TreeService maintains the content hierarchy: sibling ordering, soft
// deletion with cascade, and reparenting checks. Operations are sequences
// of independent statements; a failure part way through leaves the
// statements already issued in effect.
type TreeService struct {
	content ContentRepository
	cache   Cache
}

// NewTreeService creates a tree service. c may be nil.
func NewTreeService(content ContentRepository, c Cache) *TreeService {
	return &TreeService{content: content, cache: cacheOrNone(c)}
}

// ListChildren returns the active children of parentID (root nodes when
// nil) ordered by sequence, with their active child counts.
func (s *TreeService) ListChildren(ctx context.Context, parentID *int64) ([]models.ChildNode, error) {
	key := cache.ChildrenKey(parentID)

	var rows []models.ChildNode
	if s.cache.GetJSON(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.content.ListChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, rows)
	return rows, nil
}

// ListTree returns every active node ordered by (parent_id, sequence).
func (s *TreeService) ListTree(ctx context.Context) ([]models.ContentNode, error) {
	key := cache.TreeKey("")

	var rows []models.ContentNode
	if s.cache.GetJSON(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.content.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, rows)
	return rows, nil
}

// ListTreeWithLanguage returns every active node with its translation in
// languageCode, null-filled where missing.
func (s *TreeService) ListTreeWithLanguage(ctx context.Context, languageCode string) ([]models.TreeRow, error) {
	key := cache.TreeKey(languageCode)

	var rows []models.TreeRow
	if s.cache.GetJSON(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.content.ListActiveWithLanguage(ctx, languageCode)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, rows)
	return rows, nil
}

// Create adds a node under parentID. Without an explicit sequence it is
// placed after the highest active sibling (0 for the first child).
// Concurrent creates under one parent may pick the same sequence.
func (s *TreeService) Create(ctx context.Context, in models.NewContent) (*models.ContentNode, error) {
	nodeType := strings.TrimSpace(in.Type)
	if nodeType == "" {
		return nil, domain.Validationf("Content type is required.")
	}

	var sequence int
	if in.Sequence != nil {
		sequence = *in.Sequence
	} else {
		maxSeq, ok, err := s.content.MaxSiblingSequence(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if ok {
			sequence = maxSeq + 1
		}
	}

	node, err := s.content.Insert(ctx, in.ParentID, nodeType, sequence)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateAll(ctx)

	var parentAttr any
	if node.ParentID != nil {
		parentAttr = *node.ParentID
	}
	slog.Info("content created", "id", node.ID, "parent_id", parentAttr, "type", node.Type, "sequence", node.Sequence)
	return node, nil
}

// Update applies the present fields of patch to an active node.
func (s *TreeService) Update(ctx context.Context, id int64, patch models.ContentPatch) (*models.ContentNode, error) {
	if patch.ParentID.Value != nil && *patch.ParentID.Value == id {
		return nil, domain.Validationf("Content cannot be its own parent.")
	}
	if patch.Empty() {
		return nil, domain.Validationf("No fields to update.")
	}
	if patch.Type.Present {
		if patch.Type.Value == nil || strings.TrimSpace(*patch.Type.Value) == "" {
			return nil, domain.Validationf("Content type is required.")
		}
		patch.Type = models.Some(strings.TrimSpace(*patch.Type.Value))
	}
	if patch.Sequence.IsNull() {
		return nil, domain.Validationf("Sequence cannot be null.")
	}

	existing, err := s.content.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NotFoundf("Content not found.")
	}

	if parentID := patch.ParentID.Value; parentID != nil {
		parent, err := s.content.FindActive(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.Validationf("Parent content not found.")
		}
		if err := s.checkNotDescendant(ctx, id, parent); err != nil {
			return nil, err
		}
	}

	node, err := s.content.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, domain.NotFoundf("Content not found.")
	}
	s.cache.InvalidateAll(ctx)
	return node, nil
}

// checkNotDescendant walks up from the prospective parent and fails if it
// reaches id, which would detach id's subtree into a cycle. Soft-deleted
// ancestors still link the chain, since create accepts a deleted parent.
// The walk stops at a root, a missing row, or an already visited node.
func (s *TreeService) checkNotDescendant(ctx context.Context, id int64, parent *models.ContentNode) error {
	visited := map[int64]bool{}
	next := &parent.ID
	for next != nil && !visited[*next] {
		if *next == id {
			return domain.Validationf("Content cannot be moved under its own descendant.")
		}
		visited[*next] = true
		parentID, found, err := s.content.ParentOf(ctx, *next)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		next = parentID
	}
	return nil
}

// Delete soft-deletes an active node and all of its active descendants.
// IDs are reported with the node first, then descendants depth-first in
// sequence order.
func (s *TreeService) Delete(ctx context.Context, id int64) (*models.DeleteResult, error) {
	existing, err := s.content.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NotFoundf("Content not found or already deleted.")
	}

	ids, err := s.collectSubtree(ctx, id)
	if err != nil {
		return nil, err
	}

	// Deepest nodes go first so that after a failure the node itself is
	// still active and the delete can be repeated.
	defer s.cache.InvalidateAll(ctx)
	for i := len(ids) - 1; i >= 0; i-- {
		if err := s.content.SoftDelete(ctx, ids[i]); err != nil {
			return nil, err
		}
	}

	slog.Info("content deleted", "id", id, "deleted_count", len(ids))
	return &models.DeleteResult{DeletedCount: len(ids), DeletedIDs: ids}, nil
}

// collectSubtree returns root and its active descendants in pre-order.
// Each node is expanded at most once, so a cycle in parent links cannot
// loop forever.
func (s *TreeService) collectSubtree(ctx context.Context, root int64) ([]int64, error) {
	var ids []int64
	visited := map[int64]bool{}
	stack := []int64{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true
		ids = append(ids, n)

		parent := n
		children, err := s.content.ActiveChildIDs(ctx, &parent)
		if err != nil {
			return nil, fmt.Errorf("collect descendants of %d: %w", n, err)
		}
		for i := len(children) - 1; i >= 0; i-- {
			if !visited[children[i]] {
				stack = append(stack, children[i])
			}
		}
	}
	return ids, nil
}

// Reorder sets sequence = index for each ID in orderedIDs. Every ID must
// be an active child of parentID; nothing is written otherwise. Siblings
// left out of orderedIDs keep their sequence.
func (s *TreeService) Reorder(ctx context.Context, parentID *int64, orderedIDs []int64) (int, error) {
	if len(orderedIDs) == 0 {
		return 0, domain.Validationf("ordered_ids array is required.")
	}

	current, err := s.content.ActiveChildIDs(ctx, parentID)
	if err != nil {
		return 0, err
	}
	children := make(map[int64]bool, len(current))
	for _, id := range current {
		children[id] = true
	}
	for _, id := range orderedIDs {
		if !children[id] {
			return 0, domain.Validationf("Content ID %d does not belong to the specified parent or is deleted.", id)
		}
	}

	defer s.cache.InvalidateAll(ctx)
	for i, id := range orderedIDs {
		if err := s.content.SetSequence(ctx, id, i); err != nil {
			return 0, err
		}
	}
	return len(orderedIDs), nil
}
