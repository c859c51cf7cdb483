package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/al-mudeer/inbox-agent/internal/analytics"
	"github.com/al-mudeer/inbox-agent/internal/fetch"
	"github.com/al-mudeer/inbox-agent/internal/model"
)

// linkContextMarker delimits fetched URL content appended to the raw
// message, so downstream prompts treat it as evidence rather than the
// customer's own words.
const linkContextMarker = "\n\n--- محتوى الرابط المرفق (للسياق فقط) ---\n"

// ingest normalizes the message, resolves the channel, and
// opportunistically appends the content of the first linked URL.
func (o *Orchestrator) ingest(ctx context.Context, state *model.PipelineState, log *zap.Logger) {
	state.RawMessage = strings.TrimSpace(state.RawMessage)

	if state.MessageType == "" {
		state.MessageType = inferMessageType(state.RawMessage)
	}

	analytics.Dispatch(o.recorder, o.licenseID(state), analytics.FieldMessagesReceived, 1)

	if o.fetcher == nil {
		return
	}
	url := fetch.FirstURL(state.RawMessage)
	if url == "" {
		return
	}

	// Only the first URL is fetched, to bound latency and cost.
	content, err := o.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Debug("pipeline: link fetch failed", zap.String("url", url), zap.Error(err))
		return
	}
	state.RawMessage += linkContextMarker + content
}

// inferMessageType guesses the channel from message content when the
// caller did not declare one.
func inferMessageType(raw string) model.MessageType {
	lower := strings.ToLower(raw)

	if strings.Contains(raw, "@") && strings.Contains(lower, "subject") {
		return model.MessageTypeEmail
	}
	for _, marker := range []string{"whatsapp", "واتساب", "\U0001F4F1"} {
		if strings.Contains(lower, marker) {
			return model.MessageTypeWhatsApp
		}
	}
	for _, marker := range []string{"telegram", "تيليجرام", "تلغرام"} {
		if strings.Contains(lower, marker) {
			return model.MessageTypeTelegram
		}
	}
	return model.MessageTypeGeneral
}
