package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"english-assistant/internal/auth"
	"english-assistant/internal/contextutil"
	"english-assistant/internal/service"
)

const (
	stateCookie    = "oauth_state"
	stateCookieTTL = 10 * time.Minute
)

// GoogleSignIn runs the Google authorization code flow.
type GoogleSignIn interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleUser, error)
}

// TokenIssuer creates session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthHandler serves Google sign-in and the signed-in user's profile.
type AuthHandler struct {
	google      GoogleSignIn
	tokens      TokenIssuer
	userService service.UserService
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler. google may be nil when sign-in
// is not configured.
func NewAuthHandler(google GoogleSignIn, tokens TokenIssuer, userService service.UserService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		google:      google,
		tokens:      tokens,
		userService: userService,
		frontendURL: frontendURL,
	}
}

// UserResponse is the wire form of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Audience  string    `json:"audience"`
	Language  string    `json:"language"`
	LastLogin time.Time `json:"lastLogin"`
	CreatedAt time.Time `json:"createdAt"`
}

// GoogleLogin handles GET /auth/google by redirecting to Google's consent page.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback handles GET /auth/google/callback. On success the browser is
// sent to the frontend with the session token and the user as query parameters.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	q := r.URL.Query()

	if h.google == nil {
		h.redirectFailure(w, r, "not_configured")
		return
	}
	if reason := q.Get("error"); reason != "" {
		logger.WarnContext(ctx, "google sign-in declined", "reason", reason)
		h.redirectFailure(w, r, "auth_failed")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(q.Get("state"))) != 1 {
		logger.WarnContext(ctx, "oauth state mismatch")
		h.redirectFailure(w, r, "invalid_state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/", MaxAge: -1})

	gu, err := h.google.Exchange(ctx, q.Get("code"))
	if err != nil {
		logger.ErrorContext(ctx, "google code exchange failed", "error", err)
		h.redirectFailure(w, r, "auth_failed")
		return
	}

	user, err := h.userService.LoginGoogle(ctx, service.GoogleProfile{
		GoogleID:  gu.Sub,
		Email:     gu.Email,
		Name:      gu.Name,
		Picture:   gu.Picture,
		FirstName: gu.GivenName,
		LastName:  gu.FamilyName,
	})
	if err != nil {
		logger.ErrorContext(ctx, "google login failed", "error", err)
		h.redirectFailure(w, r, "auth_failed")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to issue session token", "error", err)
		h.redirectFailure(w, r, "token_failed")
		return
	}
	userJSON, err := json.Marshal(toUserResponse(user))
	if err != nil {
		h.redirectFailure(w, r, "token_failed")
		return
	}

	logger.InfoContext(ctx, "user signed in", "user_id", user.ID)
	v := url.Values{}
	v.Set("token", token)
	v.Set("user", string(userJSON))
	http.Redirect(w, r, h.frontendURL+"/auth/callback?"+v.Encode(), http.StatusFound)
}

// GoogleFailure handles GET /auth/google/failure.
func (h *AuthHandler) GoogleFailure(w http.ResponseWriter, r *http.Request) {
	h.redirectFailure(w, r, "auth_failed")
}

func (h *AuthHandler) redirectFailure(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, h.frontendURL+"/login?error="+url.QueryEscape(reason), http.StatusFound)
}

// Verify handles GET /auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.userService.Get(ctx, contextutil.UserIDFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to verify token")
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  toUserResponse(user),
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.userService.Get(ctx, contextutil.UserIDFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load user")
		return
	}
	writeData(ctx, w, http.StatusOK, toUserResponse(user))
}

// Logout handles POST /auth/logout. Tokens are stateless; the client drops its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "user signed out")
	writeJSON(ctx, w, http.StatusOK, SuccessResponse{Success: true, Message: "Logged out successfully"})
}

// UpdateAudience handles PUT /auth/audience.
func (h *AuthHandler) UpdateAudience(w http.ResponseWriter, r *http.Request) {
	var params service.UpdateAudienceParams
	h.update(w, r, &params, func(ctx context.Context, id string) (service.User, error) {
		return h.userService.UpdateAudience(ctx, id, params)
	})
}

// UpdateLanguage handles PUT /auth/language.
func (h *AuthHandler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	var params service.UpdateLanguageParams
	h.update(w, r, &params, func(ctx context.Context, id string) (service.User, error) {
		return h.userService.UpdateLanguage(ctx, id, params)
	})
}

// UpdateProfile handles PUT /auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var params service.UpdateProfileParams
	h.update(w, r, &params, func(ctx context.Context, id string) (service.User, error) {
		return h.userService.UpdateProfile(ctx, id, params)
	})
}

// update decodes the body into params and then runs apply for the signed-in user.
func (h *AuthHandler) update(w http.ResponseWriter, r *http.Request, params any, apply func(context.Context, string) (service.User, error)) {
	ctx := r.Context()
	if err := decodeJSON(r, params); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := apply(ctx, contextutil.UserIDFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to update user")
		return
	}
	writeData(ctx, w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(u service.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Audience:  u.Audience,
		Language:  u.Language,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}
