package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackMessage(t *testing.T) {
	pt := New(Portuguese)
	assert.Equal(t, "Muito obrigado pelo feedback.", pt.FeedbackMessage(true))
	assert.Equal(t, "Muito obrigado pelo feedback, iremos usar esses dados para melhorar as predições.", pt.FeedbackMessage(false))

	en := New(English)
	assert.Equal(t, "Thank you very much for the feedback.", en.FeedbackMessage(true))
}

func TestInvalidFieldMessage(t *testing.T) {
	pt := New(Portuguese)
	assert.Equal(t, "Valor de Glicose inválido!", pt.InvalidFieldMessage("Glucose"))
	assert.Equal(t, "Idade inválida!", pt.InvalidFieldMessage("Age"))
	assert.Equal(t, "Valor inválido para Weight!", pt.InvalidFieldMessage("Weight"))
}

func TestOutcomeMessage(t *testing.T) {
	en := New(English)
	assert.Equal(t, "Patient is DIABETIC!", en.OutcomeMessage(true))
	assert.Equal(t, "Patient is NOT DIABETIC!", en.OutcomeMessage(false))
}

func TestMatch(t *testing.T) {
	assert.Equal(t, English, Match("en-GB,en;q=0.9", Portuguese))
	assert.Equal(t, Portuguese, Match("pt-PT,pt;q=0.8", English))
	assert.Equal(t, Portuguese, Match("", Portuguese))
	assert.Equal(t, English, Match("!!bogus", English))
}

func TestParse(t *testing.T) {
	assert.Equal(t, English, Parse("en"))
	assert.Equal(t, Portuguese, Parse("pt-BR"))
	assert.Equal(t, Portuguese, Parse("not a tag"))
}
