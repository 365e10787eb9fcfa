package domain

import "time"

type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Timezone    string    `json:"timezone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Child struct {
	Name string `json:"name"`
	Age  int    `json:"age,omitempty"`
}

// CaseFile holds the custody-case facts the prompt assembler feeds the
// model. Users can have several; only the most recent one is used.
type CaseFile struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	Children     []Child   `json:"children,omitempty"`
	Jurisdiction string    `json:"jurisdiction,omitempty"`
	Goals        []string  `json:"goals,omitempty"`
	RiskFlags    []string  `json:"risk_flags,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
