package pipeline

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/al-mudeer/inbox-agent/internal/model"
)

// baseSystemPrompt is the default system prompt for the Arabic business
// assistant persona.
const baseSystemPrompt = `أنت مساعد مكتبي ذكي للشركات في العالم العربي. تتحدث العربية الفصحى بأسلوب مهني ومهذب.
تفهم السياق المحلي جيداً (العملة، العادات، أسلوب التخاطب).
مهمتك هي تحليل الرسائل الواردة واستخراج المعلومات المهمة وصياغة ردود مناسبة.
كن موجزاً ومباشراً في ردودك لتوفير استهلاك البيانات.`

// roboticPhrases are templated formulations the draft prompt forbids
// and the post-processor scrubs. Keeping replies free of these
// materially affects perceived quality.
var roboticPhrases = []string{
	"السيد/السيدة المحترم/ة",
	"نود إفادتكم",
	"يسرنا أن نحيطكم علماً",
	"نقدر ثقتكم الغالية بنا",
	"نحن بخدمتكم دائماً وأبداً",
	"يسعدنا ويشرفنا التواصل معكم",
	"مع أطيب التحيات والتقدير والاحترام",
	"ونحن في انتظار ردكم الكريم",
	"لا تترددوا في التواصل معنا في أي وقت",
	"وفقاً للسياسات المعتمدة",
	"نلتزم بتقديم أفضل الخدمات",
	"نسعى جاهدين لتحقيق رضاكم",
	"نحرص على تلبية كافة احتياجاتكم",
}

// dialectExamples maps known dialect labels to example idioms used to
// bias reply style. Labels are the ones the classifier prompt offers.
var dialectExamples = map[string]string{
	"سعودي": "استخدم اللهجة السعودية/الخليجية في الرد. مثال: 'وش تحتاج؟'، 'تمام'، 'إن شاء الله'، 'يعطيك العافية'، 'كيف أقدر أساعدك؟'",
	"خليجي": "استخدم اللهجة الخليجية في الرد. مثال: 'شلونك؟'، 'زين'، 'واجد'، 'يا هلا'، 'كيف أقدر أخدمك؟'",
	"مصري":  "استخدم اللهجة المصرية في الرد. مثال: 'إزيك؟'، 'تمام'، 'عايز إيه؟'، 'أقدر أساعدك إزاي؟'، 'الحقيقة'",
	"شامي":  "استخدم اللهجة الشامية في الرد. مثال: 'كيفك؟'، 'شو بدك؟'، 'منيح'، 'هلق'، 'كتير منيح'",
	"سوري":  "استخدم اللهجة السورية في الرد. مثال: 'شو بدك؟'، 'كيفك؟'، 'منيح'، 'هلق'، 'ليك'",
}

// buildSystemPrompt customizes the base prompt with workspace tone and
// business identity preferences.
func buildSystemPrompt(prefs *model.Preferences) string {
	if prefs == nil {
		return baseSystemPrompt
	}

	tone := strings.ToLower(strings.TrimSpace(prefs.Tone))
	custom := strings.TrimSpace(prefs.CustomToneGuidelines)

	var toneDesc string
	switch {
	case tone == "friendly":
		toneDesc = "استخدم نبرة ودية وقريبة لكن مع احترام مهني، وتجنّب العامية الثقيلة."
	case tone == "custom" && custom != "":
		toneDesc = custom
	default:
		toneDesc = "استخدم نبرة رسمية بسيطة وواضحة بدون مبالغة في المجاملات."
	}

	businessName := prefs.BusinessName
	if businessName == "" {
		businessName = "الشركة"
	}
	context := []string{"تتحدث باسم " + businessName + "."}
	if prefs.Industry != "" {
		context = append(context, "النشاط الرئيسي: "+prefs.Industry+".")
	}
	if prefs.ProductsServices != "" {
		context = append(context, "الخدمات / المنتجات الأساسية: "+prefs.ProductsServices+".")
	}

	var lengthHint string
	switch strings.ToLower(prefs.ReplyLength) {
	case "short":
		lengthHint = "احرص أن يكون الرد قصيراً قدر الإمكان (من 2 إلى 3 أسطر تقريباً)."
	case "long":
		lengthHint = "يمكن أن يكون الرد مفصلاً أكثر عند الحاجة، مع المحافظة على الوضوح."
	default:
		lengthHint = "حافظ على طول رد متوسط وواضح (حوالي 3 إلى 6 أسطر)."
	}

	return baseSystemPrompt +
		"\n\nسياق العمل:\n" + strings.Join(context, " ") +
		"\n\nأسلوب الكتابة المطلوب:\n" + toneDesc + "\n" + lengthHint
}

// historyBlock renders prior conversation turns for inclusion in a
// stage prompt, or "" when there is no history.
func historyBlock(state *model.PipelineState) string {
	if state.ConversationHistory == "" {
		return ""
	}
	return "\nسياق المحادثة السابقة مع هذا العميل (من الأحدث إلى الأقدم):\n" + state.ConversationHistory + "\n"
}

// languageName converts an ISO-ish code into a natural-language name
// for the model's benefit. Unknown codes pass through uppercased.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToUpper(code)
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return strings.ToUpper(code)
	}
	return name
}
