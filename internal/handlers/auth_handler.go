package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"gernibide/internal/models"
	"gernibide/internal/service"
)

// AuthHandler handles registration, login and the Google OAuth flow
type AuthHandler struct {
	authService *service.AuthService
	googleOAuth *oauth2.Config
}

// NewAuthHandler creates a new auth handler. Empty Google credentials disable
// the OAuth endpoints.
func NewAuthHandler(authService *service.AuthService, googleClientID, googleClientSecret, appBaseURL string) *AuthHandler {
	h := &AuthHandler{authService: authService}
	if googleClientID != "" && googleClientSecret != "" {
		h.googleOAuth = &oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			RedirectURL:  appBaseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nombre   string `json:"nombre" validate:"required,max=100"`
	Rol      string `json:"rol" validate:"omitempty,oneof=alumno profesor"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Usuario *models.Usuario `json:"usuario"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	usuario, token, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Nombre, req.Rol)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "email already taken", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to register", "register failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, Usuario: usuario})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), "", nil)
		return
	}

	usuario, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to log in", "login failed", err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, Usuario: usuario})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "missing credentials", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// StartGoogleOAuth handles GET /api/auth/google/start
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil {
		respondWithError(w, http.StatusBadRequest, "Google login not configured", "", nil)
		return
	}

	state, err := randomState()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to start OAuth flow", "state generation failed", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((10 * time.Minute).Seconds()),
	})

	http.Redirect(w, r, h.googleOAuth.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil {
		respondWithError(w, http.StatusBadRequest, "Google login not configured", "", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "missing authorization code", "", nil)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		respondWithError(w, http.StatusBadRequest, "invalid OAuth state", "", nil)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.googleOAuth.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to exchange OAuth code", "google exchange failed", err)
		return
	}

	info, err := fetchGoogleUser(ctx, token)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to fetch Google user info", "google userinfo failed", err)
		return
	}

	usuario, jwtToken, err := h.authService.OAuthLogin("google", info.Subject, info.Email, info.Name)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to log in with Google", "google login failed", err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: jwtToken, Usuario: usuario})
}

type googleUserInfo struct {
	Subject string
	Email   string
	Name    string
}

func fetchGoogleUser(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := decodeBody(resp.Body, &payload); err != nil {
		return googleUserInfo{}, err
	}
	return googleUserInfo{Subject: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}

func randomState() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// validationMessage flattens a validator error into a single user-facing line
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("invalid field %s", verrs[0].Field())
	}
	return "invalid request"
}
