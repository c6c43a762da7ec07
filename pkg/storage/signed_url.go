package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed and tampered tokens.
	ErrInvalidToken = errors.New("invalid download token")
	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = errors.New("download token expired")
)

// DownloadToken is the verified content of a signed download link.
type DownloadToken struct {
	JobID     string
	Path      string
	ExpiresAt time.Time
}

// SignedURLSigner issues and verifies HMAC-SHA256 download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate returns a token of the form jobID.expiry.path.signature.
func (s *SignedURLSigner) Generate(jobID, relPath string) (string, time.Time, error) {
	if jobID == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("jobID and relPath required")
	}
	if strings.Contains(jobID, ".") {
		return "", time.Time{}, fmt.Errorf("jobID must not contain '.'")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	sig := s.sign(jobID, ts, encodedPath)
	return strings.Join([]string{jobID, ts, encodedPath, sig}, "."), expiresAt, nil
}

// Parse validates a token. Expired tokens fail unless allowExpired is set.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (DownloadToken, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return DownloadToken{}, ErrInvalidToken
	}
	jobID, ts, encodedPath, sig := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(jobID, ts, encodedPath)), []byte(sig)) {
		return DownloadToken{}, ErrInvalidToken
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return DownloadToken{}, ErrInvalidToken
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return DownloadToken{}, ErrInvalidToken
	}
	out := DownloadToken{JobID: jobID, Path: string(rawPath), ExpiresAt: time.Unix(expUnix, 0)}
	if !allowExpired && s.now().After(out.ExpiresAt) {
		return DownloadToken{}, ErrTokenExpired
	}
	return out, nil
}

func (s *SignedURLSigner) sign(jobID, ts, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(jobID + "|" + ts + "|" + encodedPath))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
