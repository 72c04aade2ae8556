package document

import (
	"fmt"
	"regexp"
	"time"

	"recruitment-service/internal/domain"
)

var (
	specialChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[-\s]+`)
)

// sanitizeName strips characters unsafe for filenames and collapses
// whitespace/dashes to underscores.
func sanitizeName(name string) string {
	clean := specialChars.ReplaceAllString(name, "")
	return separators.ReplaceAllString(clean, "_")
}

// Filename builds the standardized artifact name for a document. The Arabic
// variant carries an _AR marker so both languages can live side by side.
func Filename(doc domain.DocumentType, candidateName string, applicationID int64, lang domain.Language, t time.Time) string {
	prefix := "Convocation_Entretien"
	if doc == domain.DocAcceptation {
		prefix = "Lettre_Acceptation"
	}
	suffix := ""
	if lang == domain.LangAR {
		suffix = "_AR"
	}
	return fmt.Sprintf("%s_%s_%d_%s%s.pdf", prefix, sanitizeName(candidateName), applicationID, t.Format("20060102_150405"), suffix)
}

// Subdir returns the storage subdirectory for a document type, matching the
// original static/convocations and static/acceptances layout.
func Subdir(doc domain.DocumentType) string {
	if doc == domain.DocAcceptation {
		return "acceptances"
	}
	return "convocations"
}
