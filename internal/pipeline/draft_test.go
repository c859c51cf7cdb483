package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/al-mudeer/inbox-agent/internal/model"
)

func TestBuildDraftPrompt_TerseForShortMessages(t *testing.T) {
	o := New(testConfig(), nil, nil, nil)

	short := &model.PipelineState{RawMessage: "كم السعر؟", Intent: model.IntentInquiry}
	prompt := o.buildDraftPrompt(short)
	assert.Contains(t, prompt, "من 2 إلى 3 أسطر")

	long := &model.PipelineState{
		RawMessage: strings.Repeat("نص طويل ", 20),
		Intent:     model.IntentInquiry,
	}
	prompt = o.buildDraftPrompt(long)
	assert.Contains(t, prompt, "من 4 إلى 6 أسطر")
}

func TestBuildDraftPrompt_ForeignLanguage(t *testing.T) {
	o := New(testConfig(), nil, nil, nil)
	state := &model.PipelineState{
		RawMessage: "Hello, I would like to know the price of your monthly plan please.",
		Intent:     model.IntentInquiry,
		Sentiment:  model.SentimentNeutral,
		Language:   "en",
	}

	prompt := o.buildDraftPrompt(state)

	assert.Contains(t, prompt, "Respond in English")
	assert.Contains(t, prompt, state.RawMessage)
	assert.NotContains(t, prompt, "عربية فصحى")
}

func TestBuildDraftPrompt_UnknownLanguageUppercased(t *testing.T) {
	o := New(testConfig(), nil, nil, nil)
	state := &model.PipelineState{
		RawMessage: strings.Repeat("x", 60),
		Language:   "zz-bogus",
	}

	prompt := o.buildDraftPrompt(state)
	assert.Contains(t, prompt, "ZZ-BOGUS")
}

func TestBuildDraftPrompt_KnownDialect(t *testing.T) {
	o := New(testConfig(), nil, nil, nil)
	state := &model.PipelineState{
		RawMessage: "وش عندكم عروض هالشهر؟ ودي أعرف التفاصيل كاملة لو سمحتوا",
		Language:   "ar",
		Dialect:    "سعودي",
	}

	prompt := o.buildDraftPrompt(state)
	assert.Contains(t, prompt, "اللهجة السعودية")
	assert.Contains(t, prompt, "يعطيك العافية")
}

func TestBuildDraftPrompt_UnknownDialectGenericInstruction(t *testing.T) {
	o := New(testConfig(), nil, nil, nil)
	state := &model.PipelineState{
		RawMessage: strings.Repeat("نص ", 30),
		Language:   "ar",
		Dialect:    "مغربي",
	}

	prompt := o.buildDraftPrompt(state)
	assert.Contains(t, prompt, "استخدم لهجة مغربي في الرد إن أمكن")
}

func TestBuildDraftPrompt_ForbidsRoboticPhrases(t *testing.T) {
	o := New(testConfig(), nil, nil, nil)
	state := &model.PipelineState{RawMessage: strings.Repeat("نص ", 30), Language: "ar"}

	prompt := o.buildDraftPrompt(state)
	assert.Contains(t, prompt, "تجنب هذه العبارات النمطية")
	assert.Contains(t, prompt, roboticPhrases[0])
}

func TestDraft_PlaceholderBelowThreshold(t *testing.T) {
	gw := &fakeGateway{responses: []string{"حسناً"}}
	o := New(testConfig(), gw, nil, nil)

	state := &model.PipelineState{RawMessage: "مرحبا", Intent: model.IntentInquiry}
	o.draft(context.Background(), state, testLogger())

	assert.Equal(t, draftPlaceholder, state.DraftResponse)
	assert.NotEmpty(t, state.Error)
}

func TestDraft_AcceptsAboveThreshold(t *testing.T) {
	gw := &fakeGateway{responses: []string{draftText}}
	o := New(testConfig(), gw, nil, nil)

	state := &model.PipelineState{RawMessage: "مرحبا", Intent: model.IntentInquiry}
	o.draft(context.Background(), state, testLogger())

	assert.Equal(t, draftText, state.DraftResponse)
	assert.Empty(t, state.Error)
}

func TestDraft_SuggestedActionsFallback(t *testing.T) {
	gw := &fakeGateway{responses: []string{draftText}}
	o := New(testConfig(), gw, nil, nil)

	state := &model.PipelineState{RawMessage: "مرحبا", Intent: model.IntentPending}
	o.draft(context.Background(), state, testLogger())

	assert.Equal(t, suggestedActions[model.IntentOther], state.SuggestedActions)
}

func TestScrubRoboticPhrases(t *testing.T) {
	in := "أهلاً أحمد،\n\nنود إفادتكم أن طلبك جاهز.\n\n\n\nمع أطيب التحيات والتقدير والاحترام"
	out := scrubRoboticPhrases(in)

	assert.NotContains(t, out, "نود إفادتكم")
	assert.NotContains(t, out, "مع أطيب التحيات والتقدير والاحترام")
	assert.Contains(t, out, "طلبك جاهز")
	assert.NotContains(t, out, "\n\n\n")
}

func TestSynthesizeSummary(t *testing.T) {
	state := &model.PipelineState{
		Intent:     model.IntentComplaint,
		SenderName: "خالد",
		Sentiment:  model.SentimentNegative,
		Urgency:    model.UrgencyUrgent,
	}
	summary := synthesizeSummary(state)

	assert.Contains(t, summary, "complaint")
	assert.Contains(t, summary, "خالد")
	assert.Contains(t, summary, "negative")
	assert.Contains(t, summary, "urgent")
}

func TestSynthesizeSummary_GenericSender(t *testing.T) {
	state := &model.PipelineState{Intent: model.IntentInquiry}
	assert.Contains(t, synthesizeSummary(state), "العميل الكريم")
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", languageName("en"))
	assert.Equal(t, "French", languageName("fr"))
	assert.Equal(t, "Turkish", languageName("tr"))
	assert.Equal(t, "!!", languageName("!!"))
}
