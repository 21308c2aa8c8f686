package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gernibide/internal/models"
	"gernibide/internal/repository"
	"gernibide/internal/security"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Claims is the JWT payload issued to authenticated users
type Claims struct {
	Rol string `json:"rol"`
	jwt.RegisteredClaims
}

// AuthService handles authentication business logic
type AuthService struct {
	usuarioRepo   *repository.UsuarioRepository
	emailService  *EmailService
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(usuarioRepo *repository.UsuarioRepository, emailService *EmailService, jwtSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		usuarioRepo:   usuarioRepo,
		emailService:  emailService,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
	}
}

// Register creates a new user account and returns it with a fresh token
func (s *AuthService) Register(ctx context.Context, email, password, nombre, rol string) (*models.Usuario, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if rol == "" {
		rol = models.RolAlumno
	}

	existing, err := s.usuarioRepo.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	usuario, err := s.usuarioRepo.Create(email, passwordHash, nombre, rol, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	if s.emailService != nil {
		// Registration succeeds even when the welcome email does not
		if err := s.emailService.SendWelcomeEmail(ctx, usuario.Email, usuario.Nombre); err != nil {
			log.Printf("Warning: failed to send welcome email to %s: %v", usuario.Email, err)
		}
	}

	token, err := s.TokenForUser(usuario)
	if err != nil {
		return nil, "", err
	}
	return usuario, token, nil
}

// Login authenticates a user and returns a fresh token
func (s *AuthService) Login(email, password string) (*models.Usuario, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	usuario, err := s.usuarioRepo.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if usuario == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(password, usuario.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.TokenForUser(usuario)
	if err != nil {
		return nil, "", err
	}
	return usuario, token, nil
}

// OAuthLogin authenticates or creates a user from a verified OAuth identity
func (s *AuthService) OAuthLogin(provider, subject, email, nombre string) (*models.Usuario, string, error) {
	if provider == "" || subject == "" {
		return nil, "", errors.New("missing oauth provider information")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	usuario, err := s.usuarioRepo.GetByOAuth(provider, subject)
	if err != nil {
		return nil, "", fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	if usuario == nil {
		existing, err := s.usuarioRepo.GetByEmail(email)
		if err != nil {
			return nil, "", fmt.Errorf("failed to check existing user: %w", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, "", ErrEmailTaken
			}
			usuario = existing
		} else {
			if nombre == "" {
				nombre = strings.Split(email, "@")[0]
			}
			usuario, err = s.usuarioRepo.CreateOAuth(email, nombre, models.RolAlumno, provider, subject)
			if err != nil {
				return nil, "", fmt.Errorf("failed to create oauth user: %w", err)
			}
		}
	}

	token, err := s.TokenForUser(usuario)
	if err != nil {
		return nil, "", err
	}
	return usuario, token, nil
}

// TokenForUser signs a JWT for the given user
func (s *AuthService) TokenForUser(usuario *models.Usuario) (string, error) {
	now := time.Now()
	claims := Claims{
		Rol: usuario.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usuario.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a JWT and returns the user it identifies
func (s *AuthService) ValidateToken(tokenString string) (*models.Usuario, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	usuario, err := s.usuarioRepo.GetByID(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if usuario == nil {
		return nil, ErrInvalidToken
	}
	return usuario, nil
}
