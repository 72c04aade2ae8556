package model

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const submissionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["prenom", "nom", "email", "telephone"],
  "properties": {
    "job_id": {"type": "integer", "minimum": 0},
    "prenom": {"type": "string", "minLength": 1},
    "nom": {"type": "string", "minLength": 1},
    "email": {"type": "string", "format": "email"},
    "telephone": {"type": "string", "minLength": 6},
    "adresse": {"type": "string"},
    "pays": {"type": "string"},
    "nationalite": {"type": "string"},
    "niveau_instruction": {"type": "string"},
    "form_language": {"type": "string", "enum": ["fr", "ar"]}
  }
}`

// ValidateSubmission validates a raw submission body against the schema.
func ValidateSubmission(body []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(submissionSchema)
	docLoader := gojsonschema.NewBytesLoader(body)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("submission validation failed: %s", msgs)
}
