package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenTypeAccess marks tokens accepted by the API.
const TokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(subject string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenTTL time.Duration
	tokenAuth      *jwtauth.JWTAuth
	now            func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService verifies and signs HS256 tokens with secretKey. The secret is
// shared with the HRIS backend that issues user tokens.
func NewJWTService(secretKey string, accessTokenExpiration string) (Service, error) {
	ttl, err := time.ParseDuration(accessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpiration, err)
	}
	return &JWTService{
		accessTokenTTL: ttl,
		tokenAuth:      jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:            time.Now,
	}, nil
}

// GenerateAccessToken issues a token for service accounts and local testing.
func (j *JWTService) GenerateAccessToken(subject string, role user.Role) (token string, expiresAt int64, err error) {
	now := j.now()
	expiresAt = now.Add(j.accessTokenTTL).Unix()

	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"sub":  subject,
		"role": string(role),
		"type": TokenTypeAccess,
		"iat":  now.Unix(),
		"exp":  expiresAt,
	})
	return token, expiresAt, err
}
