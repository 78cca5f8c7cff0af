package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret)
	userID := uuid.New()

	token, err := codec.Sign(userID, "alice@example.org")
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.org", claims.Email)
}

func TestTokenCodec_ExpiresAfterSevenDays(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	signer := NewTokenCodecWithClock(testSecret, func() time.Time { return issued })
	token, err := signer.Sign(uuid.New(), "alice@example.org")
	require.NoError(t, err)

	// Still valid just inside the window
	inside := NewTokenCodecWithClock(testSecret, func() time.Time {
		return issued.Add(SessionTTL - time.Second)
	})
	_, err = inside.Verify(token)
	require.NoError(t, err)

	// 7 days and 1 second later: expired
	outside := NewTokenCodecWithClock(testSecret, func() time.Time {
		return issued.Add(SessionTTL + time.Second)
	})
	_, err = outside.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := NewTokenCodec(testSecret)
	token, err := codec.Sign(uuid.New(), "alice@example.org")
	require.NoError(t, err)

	// Flip a character in the signature segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_WrongKey(t *testing.T) {
	token, err := NewTokenCodec(testSecret).Sign(uuid.New(), "alice@example.org")
	require.NoError(t, err)

	_, err = NewTokenCodec("some-other-secret").Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec(testSecret)

	_, err := codec.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
