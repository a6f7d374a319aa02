package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"contentadmin/internal/domain"
)

func TestChildrenParentParsing(t *testing.T) {
	tests := []struct {
		query  string
		root   bool
		parent int64
	}{
		{"", true, 0},
		{"?parent_id=", true, 0},
		{"?parent_id=null", true, 0},
		{"?parent_id=undefined", true, 0},
		{"?parent_id=12", false, 12},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			tree := &stubTree{}
			rr := do(t, NewContent(tree).Children, http.MethodGet, "/content-children"+tt.query, "", nil)

			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d", rr.Code)
			}
			if tt.root && tree.parentID != nil {
				t.Errorf("expected root listing, got parent %d", *tree.parentID)
			}
			if !tt.root && (tree.parentID == nil || *tree.parentID != tt.parent) {
				t.Errorf("parent: got %v, want %d", tree.parentID, tt.parent)
			}
			body := decode(t, rr)
			if body["count"].(float64) != 1 {
				t.Errorf("count: got %v", body["count"])
			}
			row := body["rows"].([]any)[0].(map[string]any)
			if row["child_count"].(float64) != 1 || row["has_children"] != true {
				t.Errorf("row: got %v", row)
			}
		})
	}
}

func TestChildrenBadParent(t *testing.T) {
	rr := do(t, NewContent(&stubTree{}).Children, http.MethodGet, "/content-children?parent_id=abc", "", nil)
	expectError(t, rr, http.StatusBadRequest, "parent_id must be a positive integer.")
}

func TestTreeModes(t *testing.T) {
	t.Run("structure", func(t *testing.T) {
		tree := &stubTree{}
		rr := do(t, NewContent(tree).Tree, http.MethodGet, "/content-tree", "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d", rr.Code)
		}
		if decode(t, rr)["count"].(float64) != 2 || tree.languageOf != "" {
			t.Error("expected structure listing")
		}
	})

	t.Run("with language", func(t *testing.T) {
		tree := &stubTree{}
		rr := do(t, NewContent(tree).Tree, http.MethodGet, "/content-tree?mode=with-language&language_code=en", "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d", rr.Code)
		}
		if tree.languageOf != "en" {
			t.Errorf("language: got %q", tree.languageOf)
		}
		row := decode(t, rr)["rows"].([]any)[0].(map[string]any)
		if _, ok := row["title"]; !ok {
			t.Error("translation columns must be present (null-filled)")
		}
	})

	t.Run("with language but no code", func(t *testing.T) {
		tree := &stubTree{}
		do(t, NewContent(tree).Tree, http.MethodGet, "/content-tree?mode=with-language", "", nil)
		if tree.languageOf != "" {
			t.Error("expected fallback to structure listing")
		}
	})
}

func TestCreate(t *testing.T) {
	tree := &stubTree{}
	rr := do(t, NewContent(tree).Create, http.MethodPost, "/content-create", `{"parent_id":1,"type":"chapter"}`, nil)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	if body["success"] != true || body["id"].(float64) != 9 {
		t.Errorf("body: got %v", body)
	}
	if tree.created.ParentID == nil || *tree.created.ParentID != 1 || tree.created.Sequence != nil {
		t.Errorf("create input: got %+v", tree.created)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing type", `{"parent_id":1}`, "Content type is required."},
		{"empty body", ``, "Content type is required."},
		{"bad json", `{"type":`, "Invalid JSON body."},
		{"zero parent", `{"parent_id":0,"type":"x"}`, "Parent content not found."},
		{"type too long", `{"type":"` + strings.Repeat("t", 101) + `"}`, "Content type is too long (max 100 characters)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := &stubTree{}
			rr := do(t, NewContent(tree).Create, http.MethodPost, "/content-create", tt.body, nil)
			expectError(t, rr, http.StatusBadRequest, tt.message)
			if tree.created.Type != "" {
				t.Error("service must not be called")
			}
		})
	}
}

func TestUpdateDecodesPatch(t *testing.T) {
	tree := &stubTree{}
	rr := do(t, NewContent(tree).Update, http.MethodPost, "/content-update",
		`{"id":4,"type":"section","audio_url":null,"sequence":2}`, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	p := tree.patch
	if tree.updatedID != 4 {
		t.Errorf("id: got %d", tree.updatedID)
	}
	if !p.Type.Present || *p.Type.Value != "section" {
		t.Errorf("type: got %+v", p.Type)
	}
	if !p.AudioURL.IsNull() {
		t.Errorf("audio_url must be an explicit null, got %+v", p.AudioURL)
	}
	if !p.Sequence.Present || *p.Sequence.Value != 2 {
		t.Errorf("sequence: got %+v", p.Sequence)
	}
	if p.ParentID.Present || p.VideoURL.Present || p.CSS.Present || p.DuasURL.Present {
		t.Errorf("absent fields marked present: %+v", p)
	}
	if decode(t, rr)["success"] != true {
		t.Error("expected success")
	}
}

func TestUpdateErrors(t *testing.T) {
	rr := do(t, NewContent(&stubTree{}).Update, http.MethodPost, "/content-update", `{"type":"x"}`, nil)
	expectError(t, rr, http.StatusBadRequest, "Content ID is required.")

	tree := &stubTree{err: domain.NotFoundf("Content not found.")}
	rr = do(t, NewContent(tree).Update, http.MethodPost, "/content-update", `{"id":4,"type":"x"}`, nil)
	expectError(t, rr, http.StatusNotFound, "Content not found.")

	tree = &stubTree{err: domain.Validationf("Content cannot be its own parent.")}
	rr = do(t, NewContent(tree).Update, http.MethodPost, "/content-update", `{"id":4,"parent_id":4}`, nil)
	expectError(t, rr, http.StatusBadRequest, "Content cannot be its own parent.")
}

func TestDelete(t *testing.T) {
	tree := &stubTree{}
	rr := do(t, NewContent(tree).Delete, http.MethodPost, "/content-delete", `{"id":2}`, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	body := decode(t, rr)
	if body["deleted_count"].(float64) != 2 {
		t.Errorf("deleted_count: got %v", body["deleted_count"])
	}
	if got := body["deleted_ids"].([]any); !reflect.DeepEqual(got, []any{2.0, 3.0}) {
		t.Errorf("deleted_ids: got %v", got)
	}

	rr = do(t, NewContent(&stubTree{}).Delete, http.MethodPost, "/content-delete", `{}`, nil)
	expectError(t, rr, http.StatusBadRequest, "Content ID is required.")
}

func TestReorder(t *testing.T) {
	tree := &stubTree{}
	rr := do(t, NewContent(tree).Reorder, http.MethodPost, "/content-reorder", `{"parent_id":null,"ordered_ids":[3,1,2]}`, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if tree.parentID != nil || !reflect.DeepEqual(tree.orderedIDs, []int64{3, 1, 2}) {
		t.Errorf("reorder input: parent=%v ids=%v", tree.parentID, tree.orderedIDs)
	}
	if decode(t, rr)["reordered_count"].(float64) != 3 {
		t.Error("reordered_count mismatch")
	}

	rr = do(t, NewContent(&stubTree{}).Reorder, http.MethodPost, "/content-reorder", `{"ordered_ids":[]}`, nil)
	expectError(t, rr, http.StatusBadRequest, "ordered_ids array is required.")
}

func TestUnexpectedErrorIsHidden(t *testing.T) {
	tree := &stubTree{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}
	rr := do(t, NewContent(tree).Children, http.MethodGet, "/content-children", "", nil)
	expectError(t, rr, http.StatusInternalServerError, "Internal server error.")
}
