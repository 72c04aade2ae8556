package model

// Submission is the public application payload, validated against
// submission.schema.json before an Application row is created.
type Submission struct {
	JobID          int64  `json:"job_id"`
	FirstName      string `json:"prenom"`
	LastName       string `json:"nom"`
	Email          string `json:"email"`
	Phone          string `json:"telephone"`
	Address        string `json:"adresse,omitempty"`
	Country        string `json:"pays,omitempty"`
	Nationality    string `json:"nationalite,omitempty"`
	EducationLevel string `json:"niveau_instruction,omitempty"`
	FormLanguage   string `json:"form_language,omitempty"`
}
