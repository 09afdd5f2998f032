package models

import "time"

// Alert is an operator-authored broadcast, optionally tied to the report
// that prompted it. Alerts are never edited after creation; they are only
// deactivated.
type Alert struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Audience  string    `json:"audience"` // free text, e.g. "all" or "nearby"
	SenderID  string    `json:"sender_id"`
	ReportID  string    `json:"report_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
