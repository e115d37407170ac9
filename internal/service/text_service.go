package service

import (
	"fmt"
	"strings"

	"policy-service/internal/normalize"
	"policy-service/internal/plate"
)

// TextService backs the form helpers: transliteration preview, uppercase
// conversion and field validation.
type TextService struct{}

func NewTextService() *TextService {
	return &TextService{}
}

// TextPayload carries the optional form fields. A nil field was not sent.
type TextPayload struct {
	FIO       *string `json:"fio"`
	Address   *string `json:"address"`
	RegNumber *string `json:"reg_number"`
	Text      *string `json:"text"`
}

func (s *TextService) TransliteratePayload(payload *TextPayload) (map[string]string, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: no data", ErrInvalidInput)
	}

	result := make(map[string]string)
	general := func(key string, value *string) {
		if value == nil {
			return
		}
		t := normalize.Transliterate(*value)
		result[key] = normalize.ToUpper(t)
		result[key+"_transliterated"] = t
	}

	general("fio", payload.FIO)
	general("address", payload.Address)
	if payload.RegNumber != nil {
		t := normalize.TransliteratePlate(*payload.RegNumber)
		result["reg_number"] = t
		result["reg_number_transliterated"] = t
	}
	general("text", payload.Text)

	return result, nil
}

func (s *TextService) ConvertUppercase(payload *TextPayload) (map[string]string, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: no data", ErrInvalidInput)
	}

	result := make(map[string]string)
	if payload.FIO != nil {
		result["fio"] = normalize.ToUpper(*payload.FIO)
	}
	if payload.Address != nil {
		result["address"] = normalize.ToUpper(*payload.Address)
	}
	if payload.Text != nil {
		result["text"] = normalize.ToUpper(*payload.Text)
	}
	return result, nil
}

func (s *TextService) ValidateDate(date string) bool {
	return normalize.ValidateDate(date)
}

// ValidatePlate returns whether p is valid and, if not, the problems joined by "; ".
func (s *TextService) ValidatePlate(p *plate.Plate) (bool, string) {
	if p == nil {
		return false, "category is required"
	}
	errs := p.Validate()
	return len(errs) == 0, strings.Join(errs, "; ")
}
