// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"contentadmin/internal/httputil"
	"contentadmin/internal/middleware"
)

// Auth handles login, registration, logout and 2FA enrollment.
type Auth struct {
	svc AuthService
}

// NewAuth creates a new Auth handler group.
func NewAuth(svc AuthService) *Auth {
	return &Auth{svc: svc}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

func (r credentialsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Email and password are required.")),
		validation.Field(&r.Password, validation.Required.Error("Email and password are required.")),
	)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Email and password are required."),
			is.EmailFormat.Error("Please provide a valid email address."),
		),
		validation.Field(&r.Password, validation.Required.Error("Email and password are required.")),
	)
}

type totpCodeRequest struct {
	Code string `json:"code"`
}

func (r totpCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required.Error("Two-factor code is required."),
			validation.Length(6, 8).Error("Invalid two-factor code."),
			is.Digit.Error("Invalid two-factor code."),
		),
	)
}

// Login exchanges credentials (and a TOTP code when 2FA is on) for a
// bearer token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	if err := validate(req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, res)
}

// Register creates the initial admin account while registration is
// enabled.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	// A closed registration is reported as 403 before any input checks.
	if h.svc.RegistrationOpen() {
		if err := validate(req); err != nil {
			httputil.RespondErr(w, r, err)
			return
		}
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Admin account created. Disable ALLOW_INITIAL_REGISTER after setup.",
		"userId":  user.ID,
	})
}

// Logout revokes the caller's token.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.ClaimsFromCtx(r.Context())); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// TwoFASetup generates a TOTP secret and QR code for the caller. 2FA is
// not enforced until TwoFAEnable confirms a code.
func (h *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required. Please log in.")
		return
	}

	enrollment, err := h.svc.SetupTOTP(r.Context(), claims.UserID)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, enrollment)
}

// TwoFAEnable turns on 2FA after the caller proves the new secret.
func (h *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required. Please log in.")
		return
	}

	var req totpCodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	if err := validate(req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	if err := h.svc.EnableTOTP(r.Context(), claims.UserID, req.Code); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}
