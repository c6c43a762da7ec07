package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSigner(now time.Time) *SignedURLSigner {
	s := NewSignedURLSigner("secret", time.Hour)
	s.now = func() time.Time { return now }
	return s
}

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	signer := fixedSigner(now)
	token, expiresAt, err := signer.Generate("job-1", "faculty/f-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	parsed, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", parsed.JobID)
	assert.Equal(t, "faculty/f-1.pdf", parsed.Path)
	assert.True(t, parsed.ExpiresAt.Equal(expiresAt))
}

func TestSignedURLSignerExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	signer := fixedSigner(now)
	token, _, err := signer.Generate("job-1", "faculty/f-1.csv")
	require.NoError(t, err)

	signer.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = signer.Parse(token, false)
	assert.ErrorIs(t, err, ErrTokenExpired)

	parsed, err := signer.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "job-1", parsed.JobID)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := fixedSigner(time.Now())
	token, _, err := signer.Generate("job-1", "faculty/f-1.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "job-2"
	_, err = signer.Parse(strings.Join(parts, "."), false)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = signer.Parse("not-a-token", false)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
