package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/al-mudeer/inbox-agent/internal/analytics"
	"github.com/al-mudeer/inbox-agent/internal/llm"
	"github.com/al-mudeer/inbox-agent/internal/model"
)

// draftPlaceholder substitutes for a missing or degenerate completion.
const draftPlaceholder = "⏳ جاري معالجة رسالتك، سيتم الرد عليك قريباً."

// suggestedActions maps each intent to operational next steps. Unknown
// or degraded intents get the manual-review set.
var suggestedActions = map[model.Intent][]string{
	model.IntentInquiry:        {"الرد على الاستفسار", "إضافة للأسئلة الشائعة"},
	model.IntentServiceRequest: {"إنشاء طلب جديد", "تحديد موعد", "إرسال عرض سعر"},
	model.IntentComplaint:      {"تصعيد للمدير", "فتح تذكرة دعم", "الاتصال بالعميل"},
	model.IntentFollowUp:       {"تحديث حالة الطلب", "إرسال تقرير"},
	model.IntentOffer:          {"دراسة العرض", "تحويل للمشتريات"},
	model.IntentOther:          {"مراجعة يدوية", "تصنيف الرسالة"},
}

// draft produces the reply text, the local summary, and the
// suggested-action list, then fires the replied counter.
func (o *Orchestrator) draft(ctx context.Context, state *model.PipelineState, log *zap.Logger) {
	prompt := o.buildDraftPrompt(state)

	text, err := o.gateway.Generate(ctx, llm.Request{
		Prompt:      prompt,
		System:      buildSystemPrompt(state.Preferences),
		MaxTokens:   400,
		Temperature: 0.4,
	})

	minChars := o.cfg.Pipeline.MinDraftChars
	if minChars <= 0 {
		minChars = 15
	}

	draft := scrubRoboticPhrases(strings.TrimSpace(text))
	if err != nil || len([]rune(draft)) < minChars {
		if err != nil {
			log.Warn("pipeline: draft call failed", zap.Error(err))
		} else {
			log.Warn("pipeline: draft below acceptance threshold", zap.Int("chars", len([]rune(draft))))
		}
		state.DraftResponse = draftPlaceholder
		if state.Error == "" {
			state.Error = "تعذر إنشاء رد تلقائي، الرسالة بانتظار المعالجة."
		}
	} else {
		state.DraftResponse = draft
	}

	state.Summary = synthesizeSummary(state)

	actions, ok := suggestedActions[state.Intent]
	if !ok {
		actions = suggestedActions[model.IntentOther]
	}
	state.SuggestedActions = actions

	analytics.Dispatch(o.recorder, o.licenseID(state), analytics.FieldMessagesReplied, 1)
}

// buildDraftPrompt assembles the reply prompt: terse or fuller by
// message length, rewritten entirely in the customer's language when it
// is not the primary one, dialect-biased otherwise.
func (o *Orchestrator) buildDraftPrompt(state *model.PipelineState) string {
	shortChars := o.cfg.Pipeline.ShortMessageChars
	if shortChars <= 0 {
		shortChars = 50
	}
	terse := len([]rune(state.RawMessage)) < shortChars

	sender := state.SenderName
	keyPoints := strings.Join(state.KeyPoints, "، ")

	primary := o.cfg.Pipeline.PrimaryLanguage
	if primary == "" {
		primary = "ar"
	}

	if state.Language != "" && state.Language != primary {
		return buildForeignDraftPrompt(state, terse, sender, keyPoints)
	}
	return buildArabicDraftPrompt(state, terse, sender, keyPoints)
}

func buildForeignDraftPrompt(state *model.PipelineState, terse bool, sender, keyPoints string) string {
	langName := languageName(state.Language)

	length := "4-6 lines"
	if terse {
		length = "2-3 lines"
	}
	if sender == "" {
		sender = "the customer"
	}
	if keyPoints == "" {
		keyPoints = "not specified"
	}

	var history string
	if state.ConversationHistory != "" {
		history = "\nPREVIOUS CONVERSATION CONTEXT:\n" + state.ConversationHistory + "\n"
	}

	return fmt.Sprintf(`IMPORTANT: Respond in %s (same language as the customer).
%s
Write a response to %s based on:
- Message type: %s
- Sentiment: %s
- Key points: %s

Customer's message:
%s

Write only the response in %s (%s), no explanation.`,
		langName, history, sender, state.Intent, state.Sentiment, keyPoints,
		state.RawMessage, langName, length)
}

func buildArabicDraftPrompt(state *model.PipelineState, terse bool, sender, keyPoints string) string {
	length := "من 4 إلى 6 أسطر"
	if terse {
		length = "من 2 إلى 3 أسطر"
	}
	if sender == "" {
		sender = "العميل الكريم"
	}
	if keyPoints == "" {
		keyPoints = "لم يتم استخراج نقاط واضحة"
	}

	dialectInstruction := "استخدم عربية فصحى مبسّطة وسهلة الفهم."
	if d := state.Dialect; d != "" && d != "فصحى" {
		if ex, ok := dialectExamples[d]; ok {
			dialectInstruction = ex
		} else {
			dialectInstruction = "استخدم لهجة " + d + " في الرد إن أمكن."
		}
	}

	return fmt.Sprintf(`أنت موظف خدمة عملاء محترف في شركة عربية.
اكتب رداً بشرياً طبيعياً موجهاً مباشرة إلى العميل (%s).

%s

المطلوب من الرد:
- أن يوضح أنك قرأت الرسالة وفهمت مضمونها (باختصار).
- أن يقدم معلومات أو خطوات واضحة ومحددة.
- أن يكون مشجعاً ولطيفاً، بدون مبالغة في المجاملات أو الجمل المتكررة.
- الطول المتوقع: %s كحد أقصى.

نوع الرسالة (نية العميل): %s
المشاعر: %s
النقاط الرئيسية المستخرجة: %s
%s
نص رسالة العميل الحالية:
%s

تجنب هذه العبارات النمطية:
%s

اكتب الرد فقط بدون أي شرح إضافي أو تعداد نقطي.`,
		sender, dialectInstruction, length, state.Intent, state.Sentiment, keyPoints,
		historyBlock(state), state.RawMessage, strings.Join(roboticPhrases[:5], "، "))
}

var (
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
	multiSpaceRe   = regexp.MustCompile(` {2,}`)
)

// scrubRoboticPhrases removes forbidden formulations that slip past the
// prompt, then tidies the whitespace left behind.
func scrubRoboticPhrases(text string) string {
	for _, phrase := range roboticPhrases {
		text = strings.ReplaceAll(text, phrase, "")
	}
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// synthesizeSummary builds the summary locally. Deterministic and
// cheap; no model call.
func synthesizeSummary(state *model.PipelineState) string {
	sender := state.SenderName
	if sender == "" {
		sender = "العميل الكريم"
	}
	return fmt.Sprintf("رسالة %s من %s. المشاعر: %s. الأهمية: %s.",
		state.Intent, sender, state.Sentiment, state.Urgency)
}
