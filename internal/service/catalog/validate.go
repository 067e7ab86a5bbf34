package catalog

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/heartmarshall/wordclass/internal/domain"
)

const notBlankTag = "notblank"

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report fields by their `field` tag so keys match the API.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("field"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string { return "required" },
	)
}

// validateStruct runs tag validation on v and converts failures into
// domain field errors.
func validateStruct(v any) []domain.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.FieldError{{Field: "input", Message: err.Error()}}
	}

	out := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.FieldError{
			Field:   fieldPath(fe),
			Message: fe.Translate(translator),
		})
	}
	return out
}

// fieldPath strips the struct name from the namespace, keeping slice
// indexes: "CreateWordInput.distractors[1]" becomes "distractors[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// validateOptions checks the option set built from the correct option and
// the distractors: at least three distractors, all distinct, none equal to
// the correct option.
func validateOptions(correct string, distractors []string) []domain.FieldError {
	var errs []domain.FieldError

	if len(distractors) < domain.MinDistractors {
		errs = append(errs, domain.FieldError{Field: "distractors", Message: "at least 3 distractors required"})
	}

	// Options differing only in case or spacing read the same to a student.
	correctKey := domain.NormalizeText(correct)
	seen := make(map[string]struct{}, len(distractors))
	for _, d := range distractors {
		key := domain.NormalizeText(d)
		if key == correctKey {
			errs = append(errs, domain.FieldError{Field: "distractors", Message: "must not repeat the correct option"})
			break
		}
		if _, dup := seen[key]; dup {
			errs = append(errs, domain.FieldError{Field: "distractors", Message: "must be distinct"})
			break
		}
		seen[key] = struct{}{}
	}
	return errs
}

func trimAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
