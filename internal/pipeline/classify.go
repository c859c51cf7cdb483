package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/al-mudeer/inbox-agent/internal/llm"
	"github.com/al-mudeer/inbox-agent/internal/model"
)

// classify asks the model for intent, urgency, sentiment, language, and
// dialect in one structured call. A failed call or unparseable reply
// marks the message pending; the rule-based classifier is deliberately
// never used for the production decision.
func (o *Orchestrator) classify(ctx context.Context, state *model.PipelineState, log *zap.Logger) {
	prompt := `أنت خبير خدمة عملاء يدعم العربية ولغات أخرى.
حلل الرسالة التالية وأعطني:
1. النية (intent): inquiry, service_request, complaint, follow_up, offer, marketing, automated, other
2. الأهمية (urgency): urgent, normal, low
3. المشاعر (sentiment): positive, neutral, negative
4. اللغة (language): ar, en, fr, أو رمز ISO إن أمكن
5. اللهجة (dialect): سوري، سعودي، مصري، خليجي، شامي، فصحى، أو أخرى

استخدم السياق الطبيعي للمحادثة، وتجنب الحكم من كلمة واحدة فقط.
` + historyBlock(state) + `
النص الحالي:
` + state.RawMessage + `

أرجع النتيجة بصيغة JSON فقط بهذا الشكل:
{"intent": "inquiry", "urgency": "normal", "sentiment": "neutral", "language": "ar", "dialect": "شامي"}`

	text, err := o.gateway.Generate(ctx, llm.Request{
		Prompt:      prompt,
		System:      buildSystemPrompt(state.Preferences),
		JSONMode:    true,
		MaxTokens:   300,
		Temperature: 0.1,
		Attachments: state.Attachments,
	})
	if err != nil {
		log.Warn("pipeline: classification call failed", zap.Error(err))
		markPendingClassification(state)
		return
	}

	var parsed struct {
		Intent    string `json:"intent"`
		Urgency   string `json:"urgency"`
		Sentiment string `json:"sentiment"`
		Language  string `json:"language"`
		Dialect   string `json:"dialect"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &parsed); err != nil {
		log.Warn("pipeline: classification parse failed", zap.Error(err))
		markPendingClassification(state)
		return
	}

	state.Intent = model.ParseIntent(parsed.Intent)
	state.Urgency = model.ParseUrgency(parsed.Urgency)
	state.Sentiment = model.ParseSentiment(parsed.Sentiment)
	state.Language = parsed.Language
	if state.Language == "" {
		state.Language = "ar"
	}
	state.Dialect = strings.TrimSpace(parsed.Dialect)
}

// markPendingClassification applies the degraded-classification policy:
// pending sentinel plus conservative defaults, with a retry note for
// the human reviewer.
func markPendingClassification(state *model.PipelineState) {
	state.Intent = model.IntentPending
	state.Urgency = model.UrgencyNormal
	state.Sentiment = model.SentimentNeutral
	if state.Language == "" {
		state.Language = "ar"
	}
	state.Error = "تعذر تصنيف الرسالة حالياً، ستتم إعادة المحاولة."
}

// cleanJSON strips markdown fences and surrounding junk so the body can
// be unmarshalled even when the model decorates its output.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
