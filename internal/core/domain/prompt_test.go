package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPrompt_DefaultTemplate(t *testing.T) {
	got := RenderPrompt(DefaultAnswerPrompt, "first\n\nsecond", "איך מאפסים סיסמה?")

	assert.True(t, strings.HasPrefix(got, "בהתבסס על ההקשר הבא"))
	assert.Contains(t, got, "Context:\nfirst\n\nsecond\n\n")
	assert.Contains(t, got, "Question: איך מאפסים סיסמה?\n\n")
	assert.True(t, strings.HasSuffix(got, "Answer:"))
}

func TestRenderPrompt_ValuesNotReexpanded(t *testing.T) {
	got := RenderPrompt("C={context} Q={question}", "{question}", "100% sure")
	assert.Equal(t, "C={question} Q=100% sure", got)
}
