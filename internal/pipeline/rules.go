package pipeline

import "strings"

// ruleClassification is the output of the offline keyword classifier.
type ruleClassification struct {
	Intent    string
	Urgency   string
	Sentiment string
}

// Keyword tables for the offline classifier. Arabic business
// vocabulary, matched as substrings.
var (
	ruleIntentKeywords = []struct {
		intent string
		words  []string
	}{
		{"inquiry", []string{"سعر", "كم", "تكلفة", "أسعار"}},
		{"service_request", []string{"أريد", "أرغب", "طلب", "احتاج", "نريد"}},
		{"complaint", []string{"شكوى", "مشكلة", "لم يعمل", "تأخر", "سيء"}},
		{"follow_up", []string{"متابعة", "بخصوص", "استكمال", "تذكير"}},
		{"offer", []string{"عرض", "خصم", "تخفيض", "فرصة"}},
	}

	ruleUrgentWords = []string{"عاجل", "فوري", "اليوم", "الآن", "ضروري"}
	ruleLowWords    = []string{"لاحقاً", "عندما", "متى ما"}

	rulePositiveWords = []string{"شكراً", "ممتاز", "رائع", "سعيد", "مسرور"}
	ruleNegativeWords = []string{"غاضب", "محبط", "سيء", "مستاء", "للأسف"}
)

// classifyByRules is the deterministic offline classifier. It is a
// safety net for diagnostics and offline operation only: the production
// classify stage never substitutes its output for a failed model call,
// because a low-confidence guess is worse than an explicit pending
// signal.
func classifyByRules(message string) ruleClassification {
	out := ruleClassification{
		Intent:    "other",
		Urgency:   "normal",
		Sentiment: "neutral",
	}

	for _, entry := range ruleIntentKeywords {
		if containsAny(message, entry.words) {
			out.Intent = entry.intent
			break
		}
	}

	if containsAny(message, ruleUrgentWords) {
		out.Urgency = "urgent"
	} else if containsAny(message, ruleLowWords) {
		out.Urgency = "low"
	}

	if containsAny(message, rulePositiveWords) {
		out.Sentiment = "positive"
	} else if containsAny(message, ruleNegativeWords) {
		out.Sentiment = "negative"
	}

	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
