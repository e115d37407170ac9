package http

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"policy-service/internal/normalize"
)

// Applicant text must be typed in Cyrillic; it is transliterated server side.
var cyrillicTextPattern = regexp.MustCompile(`^[а-яёА-ЯЁ0-9\s.,\-/№]*$`)

var (
	registerOnce sync.Once
	registerErr  error
)

func registerValidations() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected binding validator engine")
			return
		}
		if err := v.RegisterValidation("cyrillic_text", func(fl validator.FieldLevel) bool {
			return cyrillicTextPattern.MatchString(fl.Field().String())
		}); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("policy_date", func(fl validator.FieldLevel) bool {
			return normalize.ValidateDate(fl.Field().String())
		})
	})
	return registerErr
}

// validationMessage turns binding errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("field %s is required", field))
		case "max":
			if fe.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("field %s must be at most %s characters", field, fe.Param()))
				continue
			}
			messages = append(messages, fmt.Sprintf("field %s must be at most %s", field, fe.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("field %s must be at least %s", field, fe.Param()))
		case "cyrillic_text":
			messages = append(messages, fmt.Sprintf("field %s may contain only Cyrillic letters, digits and punctuation", field))
		case "policy_date":
			messages = append(messages, fmt.Sprintf("field %s must be a date in DD.MM.YYYY format", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("field %s must be one of: %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("field %s is invalid", field))
		}
	}
	return strings.Join(messages, "; ")
}

var snakeFields = map[string]string{
	"FIO":         "fio",
	"Address":     "address",
	"DateStart":   "date_start",
	"DateEnd":     "date_end",
	"RegNumber":   "reg_number",
	"VehicleType": "vehicle_type",
	"BrandModel":  "brand_model",
	"FontSize":    "font_size",
}

func toSnake(field string) string {
	if name, ok := snakeFields[field]; ok {
		return name
	}
	return strings.ToLower(field)
}
