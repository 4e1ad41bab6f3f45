package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity() Identity {
	return Identity{UserID: uuid.NewString(), Email: "player@example.com"}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	id := testIdentity()

	token, err := svc.Issue(id)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret", time.Hour).Issue(testIdentity())
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsTamperedToken(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	victim, err := svc.Issue(testIdentity())
	require.NoError(t, err)
	attacker, err := svc.Issue(testIdentity())
	require.NoError(t, err)

	// victim's header and payload with the attacker's signature
	v := strings.Split(victim, ".")
	a := strings.Split(attacker, ".")
	require.Len(t, v, 3)
	require.Len(t, a, 3)

	_, err = svc.Verify(v[0] + "." + v[1] + "." + a[2])
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	issued := time.Now()
	svc.now = func() time.Time { return issued }
	token, err := svc.Issue(testIdentity())
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsNonUUIDSubject(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue(Identity{UserID: "42", Email: "x@example.com"})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	id := testIdentity()
	token, err := svc.Issue(id)
	require.NoError(t, err)

	got, err := svc.Authenticate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = svc.Authenticate("bearer  " + token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", token} {
		_, err := svc.Authenticate(header)
		assert.ErrorIs(t, err, ErrMissingToken, "header %q", header)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword("hunter22", hash))
	assert.False(t, CheckPassword("hunter23", hash))
}
