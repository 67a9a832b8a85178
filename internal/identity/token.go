package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenClaims are the claims of an identity token.
type TokenClaims struct {
	jwt.RegisteredClaims
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// TokenProvider signs users in by verifying HS256 identity tokens.
type TokenProvider struct {
	secret []byte
	now    func() time.Time
}

var _ Provider = (*TokenProvider)(nil)

// NewTokenProvider verifies tokens signed with secret.
func NewTokenProvider(secret string) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), now: time.Now}
}

// SignIn validates credential and returns the identity it carries.
func (p *TokenProvider) SignIn(ctx context.Context, credential string) (*Identity, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{
		UID:         claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
		PhotoURL:    claims.Picture,
	}, nil
}

// SignOut has nothing to revoke; the token simply stops being presented.
func (p *TokenProvider) SignOut(ctx context.Context) error {
	return nil
}

// IssueToken mints a token for id valid for ttl.
func (p *TokenProvider) IssueToken(id Identity, ttl time.Duration) (string, error) {
	now := p.now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:    id.DisplayName,
		Email:   id.Email,
		Picture: id.PhotoURL,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}
