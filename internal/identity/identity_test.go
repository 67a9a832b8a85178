package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	p := NewTokenProvider("test-secret")
	token, err := p.IssueToken(Identity{UID: "u1", DisplayName: "Ana", Email: "ana@example.com"}, time.Hour)
	require.NoError(t, err)

	id, err := p.SignIn(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UID)
	assert.Equal(t, "Ana", id.DisplayName)
	assert.Equal(t, "ana@example.com", id.Email)
}

func TestTokenInvalid(t *testing.T) {
	p := NewTokenProvider("test-secret")

	_, err := p.SignIn(context.Background(), "invalid.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokenProvider("other-secret").IssueToken(Identity{UID: "u1"}, time.Hour)
	require.NoError(t, err)
	_, err = p.SignIn(context.Background(), other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	anonymous, err := p.IssueToken(Identity{}, time.Hour)
	require.NoError(t, err)
	_, err = p.SignIn(context.Background(), anonymous)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	p := NewTokenProvider("test-secret")
	issued := time.Now().Add(-2 * time.Hour)
	p.now = func() time.Time { return issued }
	token, err := p.IssueToken(Identity{UID: "u1"}, time.Hour)
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.SignIn(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

type failingProvider struct{ err error }

func (f failingProvider) SignIn(context.Context, string) (*Identity, error) { return nil, f.err }
func (f failingProvider) SignOut(context.Context) error                     { return f.err }

func TestSessionPublishesState(t *testing.T) {
	p := NewTokenProvider("test-secret")
	s := NewSession(p)
	token, err := p.IssueToken(Identity{UID: "u1"}, time.Hour)
	require.NoError(t, err)

	var states []*Identity
	sub := s.User().Subscribe(func(id *Identity) { states = append(states, id) })
	defer sub.Unsubscribe()

	_, err = s.SignIn(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", s.Current().UID)

	require.NoError(t, s.SignOut(context.Background()))
	assert.Nil(t, s.Current())

	require.Len(t, states, 3)
	assert.Nil(t, states[0])
	assert.Equal(t, "u1", states[1].UID)
	assert.Nil(t, states[2])
}

func TestSessionKeepsStateOnProviderFailure(t *testing.T) {
	boom := errors.New("popup closed")
	s := NewSession(failingProvider{err: boom})

	_, err := s.SignIn(context.Background(), "whatever")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, s.Current())
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "maria.garcia", (&Identity{Email: "maria.garcia@email.com"}).EmailLocalPart())
	assert.Equal(t, "", (*Identity)(nil).EmailLocalPart())
}
