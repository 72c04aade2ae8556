package domain

import "time"

// RecordStatusValid is the status written at issuance time. The column is an
// extension point for revocation; no current transition changes it.
const RecordStatusValid = "valide"

// VerificationRecord binds a verification code printed on an issued document
// to the issuance event it attests. Code, ApplicationID and DocumentType are
// immutable once written; only Status may change.
type VerificationRecord struct {
	Code          string       `json:"verification_code"`
	ApplicationID int64        `json:"application_id"`
	DocumentType  DocumentType `json:"document_type"`
	CandidateName string       `json:"candidate_name"`
	// JobTitle is a snapshot at issuance time, deliberately not a live
	// reference to the posting.
	JobTitle  string    `json:"job_title"`
	IssueDate string    `json:"issue_date"`
	PDFPath   string    `json:"pdf_path"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
