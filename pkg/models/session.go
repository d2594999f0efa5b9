package models

import "time"

// Session is a saved intake in progress.
type Session struct {
	ID         string           `json:"id"`
	BankName   string           `json:"bankName"`
	IntakeData IntakeData       `json:"intakeData"`
	Documents  []ParsedDocument `json:"documents"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}
