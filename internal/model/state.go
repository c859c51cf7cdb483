package model

// EntityCategory keys for PipelineState.ExtractedEntities.
const (
	EntityPhones        = "phones"
	EntityEmails        = "emails"
	EntityDates         = "dates"
	EntityAmounts       = "amounts"
	EntityMentionedName = "mentioned_name"
)

// PipelineState is the single mutable record threaded through the four
// processing stages. Each pipeline invocation owns exactly one state;
// it is never shared between concurrent invocations and never persisted
// here; the caller decides what to do with the finished record.
type PipelineState struct {
	// Input.
	RawMessage  string      `json:"raw_message"`
	MessageType MessageType `json:"message_type"`

	// Classification.
	Intent    Intent    `json:"intent"`
	Urgency   Urgency   `json:"urgency"`
	Sentiment Sentiment `json:"sentiment"`
	Language  string    `json:"language,omitempty"` // ISO-ish code, defaults to "ar"
	Dialect   string    `json:"dialect,omitempty"`  // free-form regional label

	// Extraction.
	SenderName        string              `json:"sender_name,omitempty"`
	SenderContact     string              `json:"sender_contact,omitempty"`
	KeyPoints         []string            `json:"key_points"`
	ActionItems       []string            `json:"action_items"`
	ExtractedEntities map[string][]string `json:"extracted_entities"`

	// Output.
	Summary          string   `json:"summary"`
	DraftResponse    string   `json:"draft_response"`
	SuggestedActions []string `json:"suggested_actions"`

	// Metadata.
	Error          string `json:"error,omitempty"`
	ProcessingStep string `json:"processing_step"`

	// Read-only context.
	Preferences         *Preferences `json:"preferences,omitempty"`
	ConversationHistory string       `json:"conversation_history,omitempty"`
	Attachments         []MediaRef   `json:"attachments,omitempty"`
}

// ProcessRequest is the pipeline entry-point payload, consumed by the
// HTTP and channel-adapter layers.
type ProcessRequest struct {
	Message             string       `json:"message"`
	MessageType         MessageType  `json:"message_type,omitempty"`
	SenderName          string       `json:"sender_name,omitempty"`
	SenderContact       string       `json:"sender_contact,omitempty"`
	Preferences         *Preferences `json:"preferences,omitempty"`
	ConversationHistory string       `json:"conversation_history,omitempty"`
	Attachments         []MediaRef   `json:"attachments,omitempty"`
}

// ProcessResult is the terminal output contract of one invocation.
// Success is false only for unexpected internal failures; stage-local
// LLM failures still return Success=true with degraded fields.
type ProcessResult struct {
	Success bool           `json:"success"`
	Data    *PipelineState `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`

	// Retryable signals that classification ended at the pending
	// sentinel and the caller's scheduler should resubmit the message.
	Retryable bool `json:"retryable,omitempty"`
}
