// Package i18n holds the user-facing strings in Brazilian Portuguese and English.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	InvalidPregnancies   = "invalid.Pregnancies"
	InvalidGlucose       = "invalid.Glucose"
	InvalidBloodPressure = "invalid.BloodPressure"
	InvalidSkinThickness = "invalid.SkinThickness"
	InvalidInsulin       = "invalid.Insulin"
	InvalidBMI           = "invalid.BMI"
	InvalidPedigree      = "invalid.DiabetesPedigreeFunction"
	InvalidAge           = "invalid.Age"
	InvalidField         = "invalid.field"

	OutcomeDiabetic = "outcome.diabetic"
	OutcomeHealthy  = "outcome.healthy"
	AskFeedback     = "feedback.ask"
	FeedbackThanks  = "feedback.thanks"
	FeedbackImprove = "feedback.improve"

	ErrBadRequest      = "error.bad_request"
	ErrUnauthorized    = "error.unauthorized"
	ErrWrongPassword   = "error.wrong_password"
	ErrSessionNotFound = "error.session_not_found"
	ErrNoPrediction    = "error.no_prediction"
	ErrFeedbackTwice   = "error.feedback_twice"
	ErrModel           = "error.model"
	ErrInternal        = "error.internal"
)

var (
	Portuguese = language.BrazilianPortuguese
	English    = language.AmericanEnglish

	supported = []language.Tag{Portuguese, English}
	matcher   = language.NewMatcher(supported)
)

var entries = map[string][2]string{
	InvalidPregnancies:   {"Número de Gravidez inválido!", "Invalid number of pregnancies!"},
	InvalidGlucose:       {"Valor de Glicose inválido!", "Invalid glucose value!"},
	InvalidBloodPressure: {"Valor de pressão sanguínea inválido!", "Invalid blood pressure value!"},
	InvalidSkinThickness: {"Valor de Dobra Cutânea do Tríceps inválido!", "Invalid triceps skin fold value!"},
	InvalidInsulin:       {"Valor de Insulina inválido!", "Invalid insulin value!"},
	InvalidBMI:           {"Valor de IMC inválido!", "Invalid BMI value!"},
	InvalidPedigree:      {"Probabilidade diabetes inválida!", "Invalid diabetes pedigree value!"},
	InvalidAge:           {"Idade inválida!", "Invalid age!"},
	InvalidField:         {"Valor inválido para %s!", "Invalid value for %s!"},

	OutcomeDiabetic: {"Paciente DIABÉTICO!", "Patient is DIABETIC!"},
	OutcomeHealthy:  {"Paciente NÃO DIABÉTICO!", "Patient is NOT DIABETIC!"},
	AskFeedback:     {"A predição está correta?", "Is the prediction correct?"},
	FeedbackThanks:  {"Muito obrigado pelo feedback", "Thank you very much for the feedback"},
	FeedbackImprove: {", iremos usar esses dados para melhorar as predições", ", we will use this data to improve the predictions"},

	ErrBadRequest:      {"Requisição inválida.", "Invalid request."},
	ErrUnauthorized:    {"Acesso não autorizado.", "Unauthorized."},
	ErrWrongPassword:   {"Senha incorreta.", "Wrong password."},
	ErrSessionNotFound: {"Sessão não encontrada.", "Session not found."},
	ErrNoPrediction:    {"Nenhuma predição para avaliar.", "There is no prediction to rate."},
	ErrFeedbackTwice:   {"O feedback desta predição já foi registrado.", "Feedback for this prediction was already recorded."},
	ErrModel:           {"Não foi possível realizar a predição.", "The prediction could not be made."},
	ErrInternal:        {"Erro interno.", "Internal error."},
}

var messages = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(Portuguese))
	for key, text := range entries {
		_ = b.SetString(Portuguese, key, text[0])
		_ = b.SetString(English, key, text[1])
	}
	return b
}

// Match picks the supported language closest to the Accept-Language header,
// falling back to def when the header is empty or unparsable.
func Match(acceptLanguage string, def language.Tag) language.Tag {
	if acceptLanguage == "" {
		return def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return def
	}
	return supported[idx]
}

// Parse returns the supported tag for a configured locale such as "pt-BR" or "en".
func Parse(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return Portuguese
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Portuguese
	}
	return supported[idx]
}

type Localizer struct {
	printer *message.Printer
}

func New(tag language.Tag) *Localizer {
	return &Localizer{printer: message.NewPrinter(tag, message.Catalog(messages))}
}

func (l *Localizer) Text(key string, args ...interface{}) string {
	return l.printer.Sprintf(key, args...)
}

// InvalidFieldMessage is the error a form shows for a rejected field.
func (l *Localizer) InvalidFieldMessage(field string) string {
	key := "invalid." + field
	if _, ok := entries[key]; ok {
		return l.Text(key)
	}
	return l.Text(InvalidField, field)
}

// OutcomeMessage is the headline shown after a prediction.
func (l *Localizer) OutcomeMessage(diabetic bool) string {
	if diabetic {
		return l.Text(OutcomeDiabetic)
	}
	return l.Text(OutcomeHealthy)
}

// FeedbackMessage thanks the user, promising to learn from wrong predictions.
func (l *Localizer) FeedbackMessage(correct bool) string {
	msg := l.Text(FeedbackThanks)
	if !correct {
		msg += l.Text(FeedbackImprove)
	}
	return msg + "."
}
