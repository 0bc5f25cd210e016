package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/gamertype/portrait-api/internal/models"
)

// ValidationError carries every schema violation found in one document
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "portrait failed validation: " + strings.Join(e.Issues, "; ")
}

// Validator checks decoded portraits against the strict schema.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// echoedStats accepts the card stats as any JSON number. The values are
// overwritten with the computed ones later, so only bounds matter here.
type echoedStats struct {
	Dedication  float64 `json:"dedication" validate:"min=0,max=100"`
	Mastery     float64 `json:"mastery" validate:"min=0,max=100"`
	Exploration float64 `json:"exploration" validate:"min=0,max=100"`
	Hoarding    float64 `json:"hoarding" validate:"min=0,max=100"`
	Social      float64 `json:"social" validate:"min=0,max=100"`
	Veteran     float64 `json:"veteran" validate:"min=0,max=100"`
}

func (e echoedStats) cardStats() models.CardStats {
	return models.CardStats{
		Dedication:  int(math.Round(e.Dedication)),
		Mastery:     int(math.Round(e.Mastery)),
		Exploration: int(math.Round(e.Exploration)),
		Hoarding:    int(math.Round(e.Hoarding)),
		Social:      int(math.Round(e.Social)),
		Veteran:     int(math.Round(e.Veteran)),
	}
}

// portraitDocument shadows the integer stats of models.Portrait.
type portraitDocument struct {
	models.Portrait
	Stats echoedStats `json:"stats"`
}

// Portrait decodes raw and enforces enums, roast bounds, stat bounds and
// non-empty narrative fields. It never returns a partially valid portrait.
func (val *Validator) Portrait(raw json.RawMessage) (*models.Portrait, error) {
	var doc portraitDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Issues: []string{
				fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
			}}
		}
		return nil, &ValidationError{Issues: []string{err.Error()}}
	}

	issues := val.check(&doc.Portrait, "")
	issues = append(issues, val.check(&doc.Stats, "stats.")...)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	p := doc.Portrait
	p.Stats = doc.Stats.cardStats()
	return &p, nil
}

func (val *Validator) check(s any, prefix string) []string {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	issues := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, prefix+describe(fe))
	}
	return issues
}

func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	switch fe.Tag() {
	case "notblank", "required":
		return path + ": required"
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %q", path, fe.Param(), fe.Value())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s: needs at least %s items", path, fe.Param())
		}
		return fmt.Sprintf("%s: must be >= %s", path, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s: allows at most %s items", path, fe.Param())
		}
		return fmt.Sprintf("%s: must be <= %s", path, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s", path, fe.Tag())
	}
}
