package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
)

// SetupValidator registers custom validation tags on gin's binding validator.
// Call once before the engine starts serving.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// msisdn accepts any Kenyan mobile number format the SMS gateway can
	// normalize (07XX, 7XX, 2547XX, with or without separators)
	_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		_, ok := valueobject.NormalizeMobile(fl.Field().String())
		return ok
	})
}
