package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError names the first draft field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match every validation failure with ErrInvalidDraft.
func (e *ValidationError) Unwrap() error { return ErrInvalidDraft }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims surrounding whitespace from every free-text field.
func (d Draft) Normalize() Draft {
	d.Service = ServiceCategory(strings.TrimSpace(string(d.Service)))
	d.Date = strings.TrimSpace(d.Date)
	d.Slot = strings.TrimSpace(d.Slot)
	d.CitizenName = strings.TrimSpace(d.CitizenName)
	d.NationalID = strings.TrimSpace(d.NationalID)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Note = strings.TrimSpace(d.Note)
	d.InboxID = strings.TrimSpace(d.InboxID)
	return d
}

// Validate checks the draft's fields. A blank name or phone, or a national id
// that is not exactly twelve digits, is rejected.
func (d Draft) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
			}
		}
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	if _, ok := d.Service.Info(); !ok {
		return &ValidationError{Field: "service", Message: ErrUnknownService.Error()}
	}
	return nil
}
