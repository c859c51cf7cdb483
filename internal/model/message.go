package model

import "strings"

// MessageType identifies the channel a message arrived on.
type MessageType string

const (
	MessageTypeEmail    MessageType = "email"
	MessageTypeTelegram MessageType = "telegram"
	MessageTypeWhatsApp MessageType = "whatsapp"
	MessageTypeGeneral  MessageType = "general"
)

// AllMessageTypes returns every valid message type.
func AllMessageTypes() []MessageType {
	return []MessageType{
		MessageTypeEmail,
		MessageTypeTelegram,
		MessageTypeWhatsApp,
		MessageTypeGeneral,
	}
}

// Intent is the business purpose of a message.
type Intent string

const (
	IntentInquiry        Intent = "inquiry"
	IntentServiceRequest Intent = "service_request"
	IntentComplaint      Intent = "complaint"
	IntentFollowUp       Intent = "follow_up"
	IntentOffer          Intent = "offer"
	IntentMarketing      Intent = "marketing"
	IntentAutomated      Intent = "automated"
	IntentOther          Intent = "other"

	// IntentPending marks a message whose classification could not be
	// completed. It is a must-retry signal, not a business intent:
	// downstream consumers must never auto-reply to a pending message.
	IntentPending Intent = "pending"
)

// AllIntents returns the fixed set of business intents (pending excluded).
func AllIntents() []Intent {
	return []Intent{
		IntentInquiry,
		IntentServiceRequest,
		IntentComplaint,
		IntentFollowUp,
		IntentOffer,
		IntentMarketing,
		IntentAutomated,
		IntentOther,
	}
}

// ParseIntent normalizes an intent label from LLM output. Unknown labels
// map to IntentOther.
func ParseIntent(s string) Intent {
	in := Intent(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllIntents() {
		if in == known {
			return known
		}
	}
	return IntentOther
}

// Urgency is a priority signal independent of intent.
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent"
	UrgencyNormal Urgency = "normal"
	UrgencyLow    Urgency = "low"
)

// ParseUrgency normalizes an urgency label, defaulting to normal.
func ParseUrgency(s string) Urgency {
	switch Urgency(strings.ToLower(strings.TrimSpace(s))) {
	case UrgencyUrgent:
		return UrgencyUrgent
	case UrgencyLow:
		return UrgencyLow
	default:
		return UrgencyNormal
	}
}

// Sentiment is the emotional tone of a message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment normalizes a sentiment label, defaulting to neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Media attachment kinds.
const (
	MediaImage    = "image"
	MediaAudio    = "audio"
	MediaDocument = "document"
)

// MediaRef describes an attachment forwarded to the LLM unmodified.
type MediaRef struct {
	Kind     string `json:"kind"` // image, audio, document
	MIMEType string `json:"mime_type"`
	URL      string `json:"url,omitempty"`
	Data     string `json:"data,omitempty"` // base64, for inline media
}

// Preferences carries workspace tone and business identity settings.
// Read-only input to the pipeline; populated by the caller from the
// workspace settings store.
type Preferences struct {
	Tone                 string `json:"tone" mapstructure:"tone"` // formal, friendly, custom
	CustomToneGuidelines string `json:"custom_tone_guidelines" mapstructure:"custom_tone_guidelines"`
	BusinessName         string `json:"business_name" mapstructure:"business_name"`
	Industry             string `json:"industry" mapstructure:"industry"`
	ProductsServices     string `json:"products_services" mapstructure:"products_services"`
	ReplyLength          string `json:"reply_length" mapstructure:"reply_length"` // short, medium, long
	LicenseID            int64  `json:"license_id" mapstructure:"license_id"`
}
