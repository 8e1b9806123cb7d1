package models

import "time"

// Submission types accepted by the public submit endpoint
const (
	SubmissionRegister = "register"
	SubmissionContact  = "contact"
)

// Registration is a membership application
type Registration struct {
	ID                          int64     `json:"id,string"`
	UID                         string    `json:"uid"`
	FullName                    string    `json:"fullName"`
	BirthDate                   string    `json:"birthDate"`
	BirthPlace                  string    `json:"birthPlace"`
	Address                     string    `json:"address"`
	Wilaya                      string    `json:"wilaya"`
	Phone                       string    `json:"phone"`
	FacebookLink                string    `json:"facebookLink"`
	EducationLevel              string    `json:"educationLevel"`
	Specialization              string    `json:"specialization"`
	HasVolunteeredBefore        string    `json:"hasVolunteeredBefore"`
	PreviousVolunteeringDetails string    `json:"previousVolunteeringDetails"`
	SelectedCell                string    `json:"selectedCell"`
	AgreesToFee                 bool      `json:"agreesToFee"`
	SourceAddress               string    `json:"-"`
	Timestamp                   time.Time `json:"timestamp"`
}

// ContactMessage is a message sent through the contact form
type ContactMessage struct {
	ID            int64
	Name          string
	Email         string
	Subject       string
	Message       string
	SourceAddress string
	CreatedAt     time.Time
}

// Submission is a validated, type-discriminated public form submission.
// Exactly one of Registration or Contact is set, matching Type.
type Submission struct {
	Type           string
	IdempotencyKey string
	SourceAddress  string
	Registration   *Registration
	Contact        *ContactMessage
}

// SubmissionResult is returned to the caller of the pipeline
type SubmissionResult struct {
	Success bool `json:"success"`
	Cached  bool `json:"cached,omitempty"`
}
