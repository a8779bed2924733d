package forum

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	categoryTag  = "category"
	categoryText = "invalid category"

	targetTypeTag  = "targettype"
	targetTypeText = "target type must be one of 'question' or 'answer'"

	voteValueTag  = "votevalue"
	voteValueText = "vote value must be +1 or -1"
)

// InitValidators registers the forum's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(validate, translator, categoryTag, categoryText)

	_ = validate.RegisterValidation(targetTypeTag, targetTypeValidation)
	core.RegisterCustomTranslation(validate, translator, targetTypeTag, targetTypeText)

	_ = validate.RegisterValidation(voteValueTag, voteValueValidation)
	core.RegisterCustomTranslation(validate, translator, voteValueTag, voteValueText)
}

// Custom Validators

// categoryValidation checks that the provided category is in Categories.
func categoryValidation(fl validator.FieldLevel) bool {
	val := Category(fl.Field().String())
	for _, cat := range Categories {
		if val == cat {
			return true
		}
	}
	return false
}

// targetTypeValidation checks that the provided vote target type is known.
func targetTypeValidation(fl validator.FieldLevel) bool {
	val := TargetType(fl.Field().String())
	return val == TargetQuestion || val == TargetAnswer
}

// voteValueValidation only allows up/down vote values.
func voteValueValidation(fl validator.FieldLevel) bool {
	val := fl.Field().Int()
	return val == 1 || val == -1
}
