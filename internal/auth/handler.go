package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
)

const (
	maxJSONBodyBytes  = 1 << 20
	refreshCookieName = "refreshToken"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	var body registerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	session, err := h.service.Register(r.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			writeError(w, http.StatusBadRequest, "username, email, and password are required")
		case errors.Is(err, ErrUserExists):
			writeError(w, http.StatusBadRequest, "username or email already exists")
		default:
			sentry.CaptureException(err)
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":     "User registered successfully",
		"accessToken": session.AccessToken,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	session, err := h.service.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			writeError(w, http.StatusBadRequest, "username and password are required")
		case errors.Is(err, ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			sentry.CaptureException(err)
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "Login successful",
		"accessToken": session.AccessToken,
	})
}

// Refresh answers any verification failure with a bare 403 so the client
// learns nothing about whether the cookie was missing, expired, or forged.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	access, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrTokenSignature) || errors.Is(err, ErrTokenMalformed) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": access})
}

func (h *Handler) Protected(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "This is a protected route",
		"user":    identity,
	})
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		MaxAge:   int(h.service.codec.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
