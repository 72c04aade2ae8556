package usecase

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"recruitment-service/internal/domain"
)

// codeLength is the number of hex characters kept from the hash: 64 bits,
// short enough to transcribe from a printout.
const codeLength = 16

// GenerateVerificationCode produces the code printed on an issued document.
// The application id and document type are context only; unpredictability
// comes entirely from the 128-bit random salt. Output is a fixed-width
// uppercase hex prefix of a SHA-256 digest, compatible with codes already in
// circulation.
func GenerateVerificationCode(applicationID int64, doc domain.DocumentType) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRandomSource, err)
	}
	data := fmt.Sprintf("%d-%s-%s-%s", applicationID, doc, time.Now().Format(time.RFC3339Nano), hex.EncodeToString(salt))
	sum := sha256.Sum256([]byte(data))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:codeLength]), nil
}

// NormalizeCode prepares a user-supplied code for lookup: trimmed and
// uppercased, matching how codes are stored.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
