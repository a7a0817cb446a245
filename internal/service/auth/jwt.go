package auth

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const AccessTokenType = "access"

var signingMethod = jwt.SigningMethodHS256

// JWTManager verifies access tokens minted by the identity provider and turns
// them into a request-scoped models.Identity.
type JWTManager struct {
	secretKey string
	issuer    string
}

var ErrEmptySecret = errors.New("jwt secret key is empty")

// NewJWTManager refuses an empty secret: HS256 with an empty key accepts
// tokens anyone can sign.
func NewJWTManager(secretKey, issuer string) (*JWTManager, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	return &JWTManager{
		secretKey: secretKey,
		issuer:    issuer,
	}, nil
}

type AccessTokenClaims struct {
	TokenType string    `json:"token_type"`
	UserID    uuid.UUID `json:"user_id"`
	Roles     []string  `json:"roles"`
	jwt.RegisteredClaims
}

func (j *JWTManager) AccessClaims(tokenStr string) (*AccessTokenClaims, error) {
	if j.secretKey == "" {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrInvalidToken, ErrEmptySecret)
	}
	claims := &AccessTokenClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{signingMethod.Alg()})}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, app_errors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", app_errors.ErrInvalidToken, err)
	}

	if claims.TokenType != AccessTokenType {
		return nil, fmt.Errorf("%w: wrong token type %q", app_errors.ErrInvalidToken, claims.TokenType)
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user id", app_errors.ErrInvalidToken)
	}
	return claims, nil
}

func (j *JWTManager) Identity(tokenStr string) (models.Identity, error) {
	claims, err := j.AccessClaims(tokenStr)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{UserID: claims.UserID, Roles: claims.Roles}, nil
}

// IssueAccessToken signs a token the way the identity provider does. Used by
// local tooling and tests.
func (j *JWTManager) IssueAccessToken(userID uuid.UUID, roles []string, ttl time.Duration) (string, error) {
	if j.secretKey == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	token := jwt.NewWithClaims(signingMethod, AccessTokenClaims{
		TokenType: AccessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    j.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Roles:  roles,
	})
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("access token signing failed: %w", err)
	}
	return signed, nil
}
