package handlers

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"contentadmin/internal/httputil"
	"contentadmin/internal/models"
)

// maxLanguageCodeLen covers the longest BCP 47 tags in practical use.
const maxLanguageCodeLen = 35

// Translations groups the per-language content endpoints.
type Translations struct {
	svc TranslationService
}

// NewTranslations creates the translation handler group.
func NewTranslations(svc TranslationService) *Translations {
	return &Translations{svc: svc}
}

type saveTranslationRequest struct {
	ContentID    int64  `json:"content_id"`
	LanguageCode string `json:"language_code"`
	models.TranslationFields
}

func (r saveTranslationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ContentID, validation.Required.Error("content_id is required.")),
		validation.Field(&r.LanguageCode,
			validation.Required.Error("language_code is required."),
			validation.Length(0, maxLanguageCodeLen).Error("language_code is too long."),
		),
	)
}

// Get returns every translation of ?content_id, keyed by language.
func (h *Translations) Get(w http.ResponseWriter, r *http.Request) {
	contentID, err := parseRequiredID(r.URL.Query().Get("content_id"), "content_id is required.")
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	set, err := h.svc.Get(r.Context(), contentID)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, set)
}

// Save creates or replaces the translation of one node in one language.
func (h *Translations) Save(w http.ResponseWriter, r *http.Request) {
	var req saveTranslationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	if err := validate(req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	t, err := h.svc.Save(r.Context(), req.ContentID, req.LanguageCode, req.TranslationFields)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"content_id":    t.ContentID,
		"language_code": t.LanguageCode,
	})
}
