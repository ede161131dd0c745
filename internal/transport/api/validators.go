package api

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// msisdnRe номер абонента в Гане: локальный формат 0XXXXXXXXX или международный 233XXXXXXXXX.
var msisdnRe = regexp.MustCompile(`^(?:0|\+?233)[235]\d{8}$`)

// validateMaxBytes в отличии от тэга max который проверяет длину рун, - проверят длину байт в поле.
func validateMaxBytes(fl validator.FieldLevel) bool {
	param := fl.Param() // получаем значение из тега
	maxBytes, err := strconv.Atoi(param)
	if err != nil {
		return false
	}

	// нужно убедится что значение поля - строка.
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return len([]byte(str)) <= maxBytes
}

func validateNetwork(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	return ok && domain.IsSupportedNetwork(str)
}

func validateMSISDN(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	return ok && msisdnRe.MatchString(str)
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("validator registration: unexpected engine %T", binding.Validator.Engine())
	}
	validations := map[string]validator.Func{
		"max_bytes": validateMaxBytes,
		"network":   validateNetwork,
		"msisdn":    validateMSISDN,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("validator registration: %s", err.Error())
		}
	}
	return nil
}
