package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	auth, err := newAuthenticator("pw", "secret", time.Hour, clock)
	require.NoError(t, err)

	assert.True(t, auth.checkPassword("pw"))
	assert.False(t, auth.checkPassword("PW"))

	token, expires, err := auth.issue()
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expires)
	assert.NoError(t, auth.verify(token))

	other, err := newAuthenticator("pw", "another-secret", time.Hour, clock)
	require.NoError(t, err)
	assert.ErrorIs(t, other.verify(token), errInvalidSession)

	now = now.Add(2 * time.Hour)
	assert.ErrorIs(t, auth.verify(token), errInvalidSession)
}

func TestAuthenticator_RandomKey(t *testing.T) {
	auth, err := newAuthenticator("pw", "", time.Hour, time.Now)
	require.NoError(t, err)
	assert.Len(t, auth.secret, 32)
}

func TestSameOrigin(t *testing.T) {
	req := request("POST", "/login", nil, nil)

	assert.True(t, sameOrigin("http://admin.test", req))
	assert.True(t, sameOrigin("http://ADMIN.test/login", req))
	assert.False(t, sameOrigin("http://evil.test", req))
	assert.False(t, sameOrigin("null", req))
	assert.False(t, sameOrigin("", req))
}
