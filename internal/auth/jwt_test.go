package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParseRoundTrip(t *testing.T) {
	ts := TokenService{Secret: []byte("test-secret"), Issuer: "cardhub", Duration: time.Hour}

	token, exp, err := ts.Sign()
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "cardhub", claims.Issuer)
}

func TestParseWrongSecret(t *testing.T) {
	ts := TokenService{Secret: []byte("right"), Issuer: "cardhub", Duration: time.Hour}
	token, _, err := ts.Sign()
	require.NoError(t, err)

	other := TokenService{Secret: []byte("wrong"), Issuer: "cardhub", Duration: time.Hour}
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	ts := TokenService{Secret: []byte("s"), Issuer: "cardhub", Duration: -time.Minute}
	token, _, err := ts.Sign()
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	ts := TokenService{Secret: []byte("s"), Issuer: "cardhub", Duration: time.Hour}
	_, err := ts.Parse("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "hunter2"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}
