package negdi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/negdipay/negdi-payment-service/internal/domain"
)

// Sign computes the NEGDi signature over the given fields: every field except
// "signature" concatenated as key=value in ascending key order, wrapped with
// the shared phrase on both sides, hashed with SHA-256.
func Sign(fields map[string]string, phrase string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(phrase)
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(fields[k])
	}
	sb.WriteString(phrase)

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks the "signature" field of an inbound notification
// against the response phrase. A missing or mismatching signature yields
// ErrUntrustedNotification; comparison is constant-time.
func VerifySignature(fields map[string]string, phrase string) error {
	received := fields["signature"]
	if received == "" {
		return domain.ErrUntrustedNotification
	}
	expected := Sign(fields, phrase)
	if !hmac.Equal([]byte(received), []byte(expected)) {
		return domain.ErrUntrustedNotification
	}
	return nil
}
