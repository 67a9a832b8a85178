// Package identity adapts the identity provider's authentication state into a
// single subscribable value: the signed-in user, or nil.
package identity

import (
	"context"
	"strings"

	"github.com/pageza/recetario/internal/stream"
)

// Identity is the authenticated user as reported by the provider.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// EmailLocalPart returns the part of the email before the '@'.
func (i *Identity) EmailLocalPart() string {
	if i == nil {
		return ""
	}
	local, _, _ := strings.Cut(i.Email, "@")
	return local
}

// Provider is the external identity provider.
type Provider interface {
	SignIn(ctx context.Context, credential string) (*Identity, error)
	SignOut(ctx context.Context) error
}

// Session tracks the live authentication state of one client.
type Session struct {
	provider Provider
	user     *stream.Subject[*Identity]
}

// NewSession starts signed out.
func NewSession(p Provider) *Session {
	return &Session{
		provider: p,
		user:     stream.NewSubjectWith[*Identity](nil),
	}
}

// User is the live authentication state; nil means signed out.
func (s *Session) User() stream.Source[*Identity] {
	return s.user
}

// Current returns the signed-in identity, or nil.
func (s *Session) Current() *Identity {
	id, _ := s.user.Value()
	return id
}

// SignIn authenticates with the provider and publishes the new identity.
func (s *Session) SignIn(ctx context.Context, credential string) (*Identity, error) {
	id, err := s.provider.SignIn(ctx, credential)
	if err != nil {
		return nil, err
	}
	s.user.Emit(id)
	return id, nil
}

// SignOut ends the provider session and publishes nil.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return err
	}
	s.user.Emit(nil)
	return nil
}
