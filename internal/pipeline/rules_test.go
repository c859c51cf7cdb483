package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyByRules(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want ruleClassification
	}{
		{
			"price inquiry",
			"سعر المنتج كم؟",
			ruleClassification{Intent: "inquiry", Urgency: "normal", Sentiment: "neutral"},
		},
		{
			"service request",
			"أريد طلب الخدمة الجديدة",
			ruleClassification{Intent: "service_request", Urgency: "normal", Sentiment: "neutral"},
		},
		{
			"urgent complaint",
			"عندي مشكلة والموضوع عاجل، أنا مستاء جداً",
			ruleClassification{Intent: "complaint", Urgency: "urgent", Sentiment: "negative"},
		},
		{
			"follow up low urgency",
			"متابعة بسيطة، ممكن لاحقاً",
			ruleClassification{Intent: "follow_up", Urgency: "low", Sentiment: "neutral"},
		},
		{
			"positive offer",
			"عندنا عرض خاص ممتاز لهذا الشهر",
			ruleClassification{Intent: "offer", Urgency: "normal", Sentiment: "positive"},
		},
		{
			"fallthrough",
			"مرحبا",
			ruleClassification{Intent: "other", Urgency: "normal", Sentiment: "neutral"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyByRules(tt.msg))
		})
	}
}
