package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	token := codec.Encode(Payload{UserID: "user-42"}, time.Now().Add(time.Hour))
	require.NotEmpty(t, token)

	p, ok := codec.Decode(token)
	require.True(t, ok)
	assert.Equal(t, "user-42", p.UserID)
}

func TestCodecExpiredToken(t *testing.T) {
	codec := NewCodec("test-secret")

	token := codec.Encode(Payload{UserID: "user-42"}, time.Now().Add(-time.Minute))

	p, ok := codec.Decode(token)
	assert.False(t, ok)
	assert.Empty(t, p.UserID)
}

func TestCodecTamperSensitivity(t *testing.T) {
	codec := NewCodec("test-secret")
	token := codec.Encode(Payload{UserID: "user-42"}, time.Now().Add(time.Hour))

	// инвертируем каждый бит токена по отдельности
	raw := []byte(token)
	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			tampered := make([]byte, len(raw))
			copy(tampered, raw)
			tampered[i] ^= 1 << bit
			if string(tampered) == token {
				continue
			}

			_, ok := codec.Decode(string(tampered))
			assert.False(t, ok, "tampered token accepted at byte %d bit %d", i, bit)
		}
	}
}

func TestCodecWrongSecret(t *testing.T) {
	token := NewCodec("secret-one").Encode(Payload{UserID: "user-42"}, time.Now().Add(time.Hour))

	_, ok := NewCodec("secret-two").Decode(token)
	assert.False(t, ok)
}

func TestCodecMalformedTokens(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, token := range []string{
		"",
		"no-dot-here",
		"a.b",
		"!!!.???",
		"e30.Zm9v",
	} {
		p, ok := codec.Decode(token)
		assert.False(t, ok, "token %q accepted", token)
		assert.True(t, p.IsAnonymous())
	}
}

func TestCodecEmptyUserIDRejected(t *testing.T) {
	codec := NewCodec("test-secret")
	token := codec.Encode(Payload{}, time.Now().Add(time.Hour))

	_, ok := codec.Decode(token)
	assert.False(t, ok)
}
