package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/pkg/config"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
)

// AuthService issues access tokens for the single-user deployment. Any
// well-formed credentials are accepted; nothing is stored or compared.
type AuthService struct {
	cfg       config.JWTConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg config.JWTConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{cfg: cfg, validator: validate, logger: logger, now: time.Now}
}

// Login validates the payload shape and issues a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	return s.issueSession(req.Email)
}

// Register validates the payload shape and issues a session. Registration
// does not create anything; the account is implicit.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	return s.issueSession(req.Email)
}

func (s *AuthService) issueSession(email string) (*models.SessionResponse, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.cfg.Expiration)

	claims := models.JWTClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("session issued", zap.String("email", email))
	return &models.SessionResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.cfg.Expiration.Seconds()),
		IssuedAt:    issuedAt,
		Email:       email,
	}, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
