package domain

// ExtractionPayload is the schema-constrained output of one model call,
// before timezone correction and persistence.
type ExtractionPayload struct {
	Events      []ExtractedEvent      `json:"events"`
	ActionItems []ExtractedActionItem `json:"action_items"`
	Metadata    ExtractionMetadata    `json:"metadata"`
}

type ExtractedEvent struct {
	EventType        string           `json:"event_type"`
	Description      string           `json:"description"`
	PrimaryTimestamp string           `json:"primary_timestamp"`
	Precision        string           `json:"timestamp_precision"`
	DurationMins     *int             `json:"duration_minutes,omitempty"`
	Location         string           `json:"location,omitempty"`
	Participants     Participants     `json:"participants"`
	ChildInvolved    bool             `json:"child_involved"`
	EvidenceMentions []string         `json:"evidence_mentions,omitempty"`
	ChildStatements  []ChildStatement `json:"child_statements,omitempty"`
	CoParentTone     *CoParentTone    `json:"coparent_tone,omitempty"`
	Patterns         []string         `json:"patterns,omitempty"`
	WelfareImpact    *WelfareImpact   `json:"welfare_impact,omitempty"`
}

type ExtractedActionItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority"`
	Type        string `json:"type,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
}

type ExtractionMetadata struct {
	Summary     string   `json:"summary,omitempty"`
	OverallTone string   `json:"overall_tone,omitempty"`
	Flags       []string `json:"flags,omitempty"`
}
