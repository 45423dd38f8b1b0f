package domain

import "strings"

// Placeholders substituted into prompt templates.
const (
	PromptContextPlaceholder  = "{context}"
	PromptQuestionPlaceholder = "{question}"
)

// DefaultAnswerPrompt instructs the model to answer from the retrieved
// context only, in detail, and to say so when the answer is missing.
const DefaultAnswerPrompt = "בהתבסס על ההקשר הבא, ענה על השאלה. אם התשובה אינה בהקשר, תגיד זאת. נסה לתת תשובה מפורטת\n\n" +
	"Context:\n" + PromptContextPlaceholder + "\n\n" +
	"Question: " + PromptQuestionPlaceholder + "\n\n" +
	"Answer:"

// RenderPrompt fills the context and question placeholders of template.
// Substitution is single-pass, so placeholder text inside the values is kept verbatim.
func RenderPrompt(template, context, question string) string {
	return strings.NewReplacer(
		PromptContextPlaceholder, context,
		PromptQuestionPlaceholder, question,
	).Replace(template)
}
