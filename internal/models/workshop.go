package models

import "encoding/json"

// Workshop describes a session that participants can evaluate
type Workshop struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Instructor string          `json:"instructor"`
	HeroImage  string          `json:"heroImage"`
	Questions  json.RawMessage `json:"questions"`
}

// Participant identifies who filled a workshop evaluation
type Participant struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,max=32"`
}

// Evaluation is a submitted workshop evaluation. Responses maps question text
// (or legacy question id) to the answer.
type Evaluation struct {
	Participant   Participant
	WorkshopTitle string
	Responses     map[string]string
	IsDynamic     bool
}
