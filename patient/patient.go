// Package patient holds the measurements collected by the prediction form
// and the range checks applied before they reach the classifier.
package patient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Patient is one filled-in form. Field order is the feature order the model
// was trained with.
type Patient struct {
	Pregnancies              int     `json:"Pregnancies" validate:"gte=0"`
	Glucose                  int     `json:"Glucose" validate:"gt=0"`
	BloodPressure            int     `json:"BloodPressure" validate:"gt=0"`
	SkinThickness            int     `json:"SkinThickness" validate:"gt=0"`
	Insulin                  int     `json:"Insulin" validate:"gt=0"`
	BMI                      float64 `json:"BMI" validate:"gt=0"`
	DiabetesPedigreeFunction float64 `json:"DiabetesPedigreeFunction" validate:"gte=0,lte=1"`
	Age                      int     `json:"Age" validate:"gte=0"`
}

// FeatureCount is the length of the vector returned by FeatureVector.
const FeatureCount = 8

// FeatureNames lists feature names in vector order.
var FeatureNames = [FeatureCount]string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"BMI",
	"DiabetesPedigreeFunction",
	"Age",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one rejected measurement.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (f FieldError) String() string {
	switch f.Rule {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f.Field, f.Param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", f.Field, f.Param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", f.Field, f.Param)
	default:
		return fmt.Sprintf("%s is invalid", f.Field)
	}
}

// ValidationError lists every failing field in form order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid patient: " + strings.Join(parts, "; ")
}

// First returns the field a form reports when it stops at the first problem.
func (e *ValidationError) First() FieldError {
	if len(e.Fields) == 0 {
		return FieldError{}
	}
	return e.Fields[0]
}

// Validate checks p against the domain ranges. It returns a *ValidationError
// when any field is out of range.
func Validate(p Patient) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// FeatureVector flattens p into the model input.
func FeatureVector(p Patient) []float64 {
	return []float64{
		float64(p.Pregnancies),
		float64(p.Glucose),
		float64(p.BloodPressure),
		float64(p.SkinThickness),
		float64(p.Insulin),
		p.BMI,
		p.DiabetesPedigreeFunction,
		float64(p.Age),
	}
}
