package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

var (
	serialNumberRegex = regexp.MustCompile(`^[A-Za-z0-9\-]+$`)
	phoneRegex        = regexp.MustCompile(`^\d{10}$|^\d{3}-\d{3}-\d{4}$`)
)

// Validator runs tag based field checks and renders every violation in English.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// report json names so messages line up with the request payload
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	custom := []struct {
		tag     string
		regex   *regexp.Regexp
		message string
	}{
		{"serialnumber", serialNumberRegex, "{0} can only contain letters, numbers, and hyphens"},
		{"phone", phoneRegex, "{0} must be 10 digits or XXX-XXX-XXXX format"},
	}
	for _, c := range custom {
		regex := c.regex
		if err := validate.RegisterValidation(c.tag, func(fl validator.FieldLevel) bool {
			return regex.MatchString(fl.Field().String())
		}); err != nil {
			return nil, err
		}

		tag, message := c.tag, c.message
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}); err != nil {
			return nil, err
		}
	}

	return &Validator{validate: validate, translator: trans}, nil
}

// Struct validates s and returns a *domain.ValidationError listing every
// violated field, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]domain.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(v.translator),
		})
	}
	return &domain.ValidationError{Fields: fields}
}

func (v *Validator) ValidateAsset(asset *domain.Asset) error {
	var fields []domain.FieldError
	if err := v.Struct(asset); err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		fields = ve.Fields
	}

	if asset.WarrantyExpiryDate != nil && domain.DateOf(*asset.WarrantyExpiryDate).Before(domain.DateOf(asset.PurchaseDate)) {
		fields = append(fields, domain.FieldError{
			Field:   "warrantyExpiryDate",
			Message: "Warranty expiry date cannot be before purchase date.",
		})
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func (v *Validator) ValidateEmployee(employee *domain.Employee) error {
	return v.Struct(employee)
}

func (v *Validator) ValidateAssignment(assignment *domain.Assignment) error {
	return v.Struct(assignment)
}
