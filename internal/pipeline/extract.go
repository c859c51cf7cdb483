package pipeline

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/al-mudeer/inbox-agent/internal/llm"
	"github.com/al-mudeer/inbox-agent/internal/model"
)

var (
	// Regional phone patterns, tried in sequence.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:00963|\+963|0)?9\d{8}`),                                 // Syrian mobile
		regexp.MustCompile(`(?:00963|\+963|0)?11\d{7}`),                                // Damascus landline
		regexp.MustCompile(`(?:\+|00)?(?:963|966|971|962|961|20|965|974)\d{8,10}`),     // regional international
		regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`),                            // general format
	}

	emailRe  = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	dateRe   = regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`)
	amountRe = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:ل\.س|ليرة|دولار|ر\.س|ريال|\$|USD|SAR)`)

	// Addressee name after an honorific; restricted to Arabic letters
	// so only name-like text is captured.
	nameRe = regexp.MustCompile(`(?:السيد|السيدة|الأستاذ|الأستاذة|أخي|أختي)\s+([\x{0600}-\x{06FF}\s]+)`)
)

// extract populates deterministic entities, then attempts LLM key-point
// and action-item extraction. Entity extraction never depends on the
// model being available.
func (o *Orchestrator) extract(ctx context.Context, state *model.PipelineState, log *zap.Logger) {
	entities := extractEntities(state.RawMessage)
	state.ExtractedEntities = entities

	if names := entities[model.EntityMentionedName]; len(names) > 0 && state.SenderName == "" {
		state.SenderName = names[0]
	}
	// Email takes priority over phone for the contact field.
	if state.SenderContact == "" {
		if emails := entities[model.EntityEmails]; len(emails) > 0 {
			state.SenderContact = emails[0]
		} else if phones := entities[model.EntityPhones]; len(phones) > 0 {
			state.SenderContact = phones[0]
		}
	}

	prompt := `أنت مساعد يدعم فريق خدمة العملاء.
من الرسالة التالية استخرج باختصار:
1. النقاط الرئيسية التي يذكرها العميل (3 نقاط كحد أقصى).
2. أهم الإجراءات أو الخطوات التي ينبغي على الفريق القيام بها.

يجب أن تكون اللغة عربية فصحى بسيطة ومباشرة.
` + historyBlock(state) + `
نص الرسالة الحالية:
` + state.RawMessage + `

أرجع النتيجة بصيغة JSON فقط بهذا الشكل:
{"key_points": ["نقطة مختصرة 1", "نقطة مختصرة 2"], "action_items": ["إجراء واضح 1"]}`

	text, err := o.gateway.Generate(ctx, llm.Request{
		Prompt:      prompt,
		System:      buildSystemPrompt(state.Preferences),
		JSONMode:    true,
		MaxTokens:   400,
		Temperature: 0.2,
	})
	if err != nil {
		// Empty lists beat guessed ones; drafting tolerates both.
		log.Warn("pipeline: key-point extraction failed", zap.Error(err))
		return
	}

	var parsed struct {
		KeyPoints   []string `json:"key_points"`
		ActionItems []string `json:"action_items"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &parsed); err != nil {
		log.Warn("pipeline: key-point parse failed", zap.Error(err))
		return
	}

	if len(parsed.KeyPoints) > 3 {
		parsed.KeyPoints = parsed.KeyPoints[:3]
	}
	if parsed.KeyPoints != nil {
		state.KeyPoints = parsed.KeyPoints
	}
	if parsed.ActionItems != nil {
		state.ActionItems = parsed.ActionItems
	}
}

// extractEntities runs the deterministic pattern extractors. Duplicate
// matches collapse via set semantics; output order is first-seen.
func extractEntities(message string) map[string][]string {
	entities := map[string][]string{}

	var phones []string
	for _, re := range phonePatterns {
		phones = append(phones, re.FindAllString(message, -1)...)
	}
	if phones = dedupe(phones); len(phones) > 0 {
		entities[model.EntityPhones] = phones
	}

	if emails := dedupe(emailRe.FindAllString(message, -1)); len(emails) > 0 {
		entities[model.EntityEmails] = emails
	}

	if dates := dedupe(dateRe.FindAllString(message, -1)); len(dates) > 0 {
		entities[model.EntityDates] = dates
	}

	var amounts []string
	for _, m := range amountRe.FindAllStringSubmatch(message, -1) {
		amounts = append(amounts, m[1])
	}
	if amounts = dedupe(amounts); len(amounts) > 0 {
		entities[model.EntityAmounts] = amounts
	}

	if m := nameRe.FindStringSubmatch(message); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			entities[model.EntityMentionedName] = []string{name}
		}
	}

	return entities
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
