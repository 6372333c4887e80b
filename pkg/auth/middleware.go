package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"keepnote/pkg/logger"
)

// maxSignatureAge rejects replayed requests whose timestamp header is too
// far from the server clock.
const maxSignatureAge = 5 * time.Minute

const (
	sigHeader = "X-Slack-Signature"
	tsHeader  = "X-Slack-Request-Timestamp"
)

// RequireSignature verifies the platform's v0 request signature:
// hex(hmac-sha256(secret, "v0:<timestamp>:<body>")). An empty secret
// disables verification (local development). The body is restored for the
// downstream handler.
func RequireSignature(secret string, next http.Handler) http.Handler {
	if secret == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sig := strings.TrimSpace(r.Header.Get(sigHeader))
		ts := strings.TrimSpace(r.Header.Get(tsHeader))
		if sig == "" || ts == "" {
			logger.Warn("missing_signature_headers", "path", r.URL.Path, "remote", r.RemoteAddr)
			http.Error(w, `{"error":"missing signature headers"}`, http.StatusUnauthorized)
			return
		}
		tsec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			http.Error(w, `{"error":"invalid timestamp"}`, http.StatusUnauthorized)
			return
		}
		if d := time.Since(time.Unix(tsec, 0)); d > maxSignatureAge || d < -maxSignatureAge {
			logger.Warn("stale_signature_timestamp", "ts", ts, "remote", r.RemoteAddr)
			http.Error(w, `{"error":"stale request"}`, http.StatusUnauthorized)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, `{"error":"unreadable body"}`, http.StatusBadRequest)
			return
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte("v0:" + ts + ":"))
		mac.Write(body)
		expected := "v0=" + hex.EncodeToString(mac.Sum(nil))
		if !hmac.Equal([]byte(expected), []byte(sig)) {
			logger.Warn("invalid_signature", "path", r.URL.Path, "remote", r.RemoteAddr)
			http.Error(w, `{"error":"invalid signature"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Sign computes the signature value for a timestamp and body. Exported for
// tests and tooling.
func Sign(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + ts + ":"))
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}
