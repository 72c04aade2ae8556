package domain

import "errors"

var (
	// ErrNotFound: an application id or verification code does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition: the decision is not legal from the application's
	// current phase state, or the decision value is outside the enumeration.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrMissingField: a required field for the decision is absent, e.g. an
	// interview selection without an interview date.
	ErrMissingField = errors.New("missing required field")

	// ErrDocumentGeneration: PDF rendering or artifact storage failed. The
	// owning phase transition still commits; callers surface this as a
	// warning alongside the committed transition.
	ErrDocumentGeneration = errors.New("document generation failed")

	// ErrRandomSource: the verification code generator could not obtain
	// entropy. Fatal to the issuance only.
	ErrRandomSource = errors.New("random source failure")

	// ErrCodeCollision: a generated code already exists in the ledger. The
	// issuer regenerates and retries on this.
	ErrCodeCollision = errors.New("verification code collision")
)
