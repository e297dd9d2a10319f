package httpapi

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"storefront.dev/internal/audit"
	"storefront.dev/internal/auth"
	"storefront.dev/internal/store"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, r, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, r, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logServerError(r, err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := a.users.Create(r.Context(), store.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "user.register", map[string]any{
		"user_id": user.ID.Hex(),
	})

	a.respondWithToken(w, r, user, http.StatusCreated)
}

func (a *API) handleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req signinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same message as a bad password so addresses can't be probed.
			unauthorized(w, r, "invalid email or password")
			return
		}
		handleStoreError(w, r, err)
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		unauthorized(w, r, "invalid email or password")
		return
	}

	_ = audit.LogEvent(r.Context(), "user.signin", map[string]any{
		"user_id": user.ID.Hex(),
	})

	a.respondWithToken(w, r, user, http.StatusOK)
}

func (a *API) respondWithToken(w http.ResponseWriter, r *http.Request, user store.User, code int) {
	token, expiresAt, err := a.tokens.Issue(auth.Identity{
		UserID:  user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		logServerError(r, err)
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	writeJSON(w, code, authResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
