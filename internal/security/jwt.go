// Package security verifies caller identities and throttles per-learner traffic.
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dazhangman/internal/models"
)

// ErrInvalidToken wraps every token verification failure
var ErrInvalidToken = errors.New("invalid token")

// identityClaims is the token layout issued by the external auth service
type identityClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// TokenVerifier checks HS256 bearer tokens and turns them into identities
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier. An empty issuer accepts any issuer.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses the token and returns the caller identity
func (v *TokenVerifier) Verify(tokenString string) (models.Identity, error) {
	if tokenString == "" {
		return models.Identity{}, fmt.Errorf("%w: token is empty", ErrInvalidToken)
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return models.Identity{}, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return models.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	role := models.Role(claims.Role)
	switch role {
	case "":
		role = models.RoleStudent
	case models.RoleStudent, models.RoleTeacher:
	default:
		return models.Identity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	return models.Identity{LearnerID: claims.Subject, Username: name, Role: role}, nil
}

// Issue signs a token for id. The game never issues tokens to clients; this
// serves the admin CLI and tests.
func (v *TokenVerifier) Issue(id models.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.LearnerID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: id.Username,
		Role: string(id.Role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
