package pipeline

import (
	"regexp"
	"strings"

	"github.com/al-mudeer/inbox-agent/internal/model"
)

// Local blocking pre-pass: obviously automated traffic is rejected
// before any model call. Each rule returns a human-readable reason.

var (
	noReplySenderRe = regexp.MustCompile(`(?i)^(?:no-?reply|do-?not-?reply|notifications?|mailer-daemon|bounce)[@.]`)

	otpBodyMarkers = []string{
		"رمز التحقق",
		"رمز التفعيل",
		"كلمة المرور لمرة واحدة",
		"verification code",
		"one-time password",
		"otp code",
		"do not share this code",
	}

	spamKeywords = []string{
		"click here", "limited time", "act now", "urgent action required",
		"you have won", "congratulations", "free money", "click this link",
		"اضغط هنا", "عرض محدود", "فوز", "جائزة", "مجاني",
	}

	meaningfulRe = regexp.MustCompile(`[a-zA-Z\x{0600}-\x{06FF}]`)
	linkCountRe  = regexp.MustCompile(`https?://`)
)

// blockedByFilters reports whether the request should be rejected
// locally, with the reason when it is.
func blockedByFilters(req model.ProcessRequest) (string, bool) {
	body := strings.TrimSpace(req.Message)

	if len([]rune(body)) < 3 {
		return "message too short", true
	}
	if !meaningfulRe.MatchString(body) {
		return "no meaningful content", true
	}

	if req.SenderContact != "" && noReplySenderRe.MatchString(req.SenderContact) {
		return "automated sender", true
	}

	lower := strings.ToLower(body)
	for _, marker := range otpBodyMarkers {
		if strings.Contains(lower, marker) {
			return "verification code message", true
		}
	}

	if spamScore(body, lower) >= 3 {
		return "spam detected", true
	}

	return "", false
}

// spamScore mirrors the classic heuristic: keyword hit scores 2, too
// many links and shouty casing score 1 each.
func spamScore(body, lower string) int {
	score := 0
	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			score += 2
			break
		}
	}
	if len(linkCountRe.FindAllString(body, -1)) > 3 {
		score++
	}
	if len(body) > 50 && capsRatio(body) > 0.5 {
		score++
	}
	return score
}

func capsRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	upper := 0
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	return float64(upper) / float64(len([]rune(s)))
}
