package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/al-mudeer/inbox-agent/internal/model"
)

func TestExtractEntities_Phones(t *testing.T) {
	entities := extractEntities("اتصلوا على 0912345678 أو +963912345678")
	require.NotEmpty(t, entities[model.EntityPhones])
	assert.Contains(t, entities[model.EntityPhones], "0912345678")
}

func TestExtractEntities_Email(t *testing.T) {
	entities := extractEntities("راسلنا على info@shop.example.com للتفاصيل")
	assert.Equal(t, []string{"info@shop.example.com"}, entities[model.EntityEmails])
}

func TestExtractEntities_Dates(t *testing.T) {
	entities := extractEntities("الموعد يوم 15/3/2026 أو 20-04-26")
	assert.ElementsMatch(t, []string{"15/3/2026", "20-04-26"}, entities[model.EntityDates])
}

func TestExtractEntities_Amounts(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"المبلغ 5000 ليرة فقط", "5000"},
		{"السعر 1,500 دولار", "1,500"},
		{"التكلفة 250.50 ر.س شاملة الضريبة", "250.50"},
		{"يعني حوالي 99 $", "99"},
	}
	for _, tt := range tests {
		entities := extractEntities(tt.text)
		assert.Contains(t, entities[model.EntityAmounts], tt.want, "text: %s", tt.text)
	}
}

func TestExtractEntities_HonorificName(t *testing.T) {
	entities := extractEntities("مرحبا، أنا بتواصل نيابة عن السيد أحمد الخالد بخصوص العقد")
	require.Len(t, entities[model.EntityMentionedName], 1)
	assert.Contains(t, entities[model.EntityMentionedName][0], "أحمد")
}

func TestExtractEntities_NoMatches(t *testing.T) {
	entities := extractEntities("hello there")
	assert.Empty(t, entities)
}

func TestExtractEntities_Dedupe(t *testing.T) {
	entities := extractEntities("email: a@b.com and again a@b.com")
	assert.Equal(t, []string{"a@b.com"}, entities[model.EntityEmails])
}

func TestExtractEntities_Idempotent(t *testing.T) {
	msg := "السيد خالد العلي، الرجاء التواصل على k.ali@corp.example أو 0933344556 قبل 10/09/2026، المبلغ 75,000 ليرة"
	first := extractEntities(msg)
	second := extractEntities(msg)
	assert.Equal(t, first, second)
}

func TestExtract_SenderFieldsNotOverwritten(t *testing.T) {
	gw := &fakeGateway{responses: []string{extractJSON}}
	o := New(testConfig(), gw, nil, nil)

	state := &model.PipelineState{
		RawMessage:    "من السيد سامر الحلبي، راسلوني على samer@example.com",
		SenderName:    "existing name",
		SenderContact: "existing@contact.example",
	}
	o.extract(context.Background(), state, testLogger())

	assert.Equal(t, "existing name", state.SenderName)
	assert.Equal(t, "existing@contact.example", state.SenderContact)
	assert.Contains(t, state.ExtractedEntities[model.EntityEmails], "samer@example.com")
}

func TestExtract_KeyPointsCappedAtThree(t *testing.T) {
	gw := &fakeGateway{responses: []string{
		`{"key_points": ["a", "b", "c", "d", "e"], "action_items": ["x"]}`,
	}}
	o := New(testConfig(), gw, nil, nil)

	state := &model.PipelineState{RawMessage: "نص تجريبي"}
	o.extract(context.Background(), state, testLogger())

	assert.Equal(t, []string{"a", "b", "c"}, state.KeyPoints)
	assert.Equal(t, []string{"x"}, state.ActionItems)
}
