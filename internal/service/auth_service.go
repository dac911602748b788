package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

// AuthConfig defines the division password table and token settings.
type AuthConfig struct {
	DivisionPasswords map[string]string
	MasterPassword    string
	FallbackPassword  string
	TokenSecret       string
	TokenExpiry       time.Duration
	Issuer            string
	BcryptCost        int
}

// AuthService unlocks divisions for editing.
//
// Every division has one shared password. The master password unlocks all
// divisions, and the fallback password unlocks divisions missing from the
// table so newly added sheet divisions are not locked out.
type AuthService struct {
	divisions map[string][]byte
	master    []byte
	fallback  []byte
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService hashes the password table and constructs the service.
func NewAuthService(config AuthConfig, validate *validator.Validate, audit auditRecorder, logger *zap.Logger) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TokenSecret == "" {
		return nil, errors.New("token secret is required")
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 12 * time.Hour
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}

	svc := &AuthService{
		divisions: make(map[string][]byte, len(config.DivisionPasswords)),
		audit:     audit,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
	for division, password := range config.DivisionPasswords {
		hash, err := hashPassword(password, config.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", division, err)
		}
		svc.divisions[divisionKey(division)] = hash
	}
	var err error
	if svc.master, err = hashPassword(config.MasterPassword, config.BcryptCost); err != nil {
		return nil, fmt.Errorf("hash master password: %w", err)
	}
	if svc.fallback, err = hashPassword(config.FallbackPassword, config.BcryptCost); err != nil {
		return nil, fmt.Errorf("hash fallback password: %w", err)
	}
	return svc, nil
}

// Login checks the division password and issues a session token.
func (s *AuthService) Login(ctx context.Context, req models.DivisionLoginRequest) (*models.DivisionLoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "division and password are required")
	}
	division := strings.TrimSpace(req.Division)
	password := strings.TrimSpace(req.Password)

	allAccess := false
	switch {
	case matches(s.master, password):
		allAccess = true
	case s.divisions[divisionKey(division)] != nil:
		if !matches(s.divisions[divisionKey(division)], password) {
			return nil, s.reject(division, req.IP)
		}
	case matches(s.fallback, password):
	default:
		return nil, s.reject(division, req.IP)
	}

	issuedAt := s.now().UTC()
	token, err := s.issueToken(division, allAccess, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	if s.audit != nil {
		s.audit.Record(newAuditEntry(dto.Actor{Division: division, AllAccess: allAccess, IP: req.IP},
			models.AuditActionDivisionLogin, "auth", "", map[string]bool{"all_access": allAccess}))
	}
	s.logger.Info("division unlocked", zap.String("division", division), zap.Bool("all_access", allAccess))

	return &models.DivisionLoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		Division:    division,
		AllAccess:   allAccess,
		IssuedAt:    issuedAt,
	}, nil
}

// ValidateToken parses and validates a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issueToken(division string, allAccess bool, issuedAt time.Time) (string, error) {
	claims := models.JWTClaims{
		Division:  division,
		AllAccess: allAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   division,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}

func (s *AuthService) reject(division, ip string) error {
	s.logger.Warn("division unlock rejected", zap.String("division", division), zap.String("ip", ip))
	return appErrors.ErrInvalidCredentials
}

func divisionKey(division string) string {
	return strings.ToLower(strings.TrimSpace(division))
}

// hashPassword returns nil for an empty password so it never matches.
func hashPassword(password string, cost int) ([]byte, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return nil, nil
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

func matches(hash []byte, password string) bool {
	if hash == nil || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
