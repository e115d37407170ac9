package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const DateLayout = "02.01.2006"

var (
	ErrInvalidFormat = errors.New("invalid date format")

	datePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
)

// ValidateDate reports whether text is a real calendar date written as DD.MM.YYYY.
func ValidateDate(text string) bool {
	if !datePattern.MatchString(text) {
		return false
	}
	// time.Parse rejects 31.02 and friends
	_, err := time.Parse(DateLayout, text)
	return err == nil
}

// ParseDate splits a DD.MM.YYYY date into its parts, keeping leading zeros.
func ParseDate(text string) (day, month, year string, err error) {
	if !ValidateDate(text) {
		return "", "", "", fmt.Errorf("%w: %q, expected DD.MM.YYYY", ErrInvalidFormat, text)
	}
	return text[0:2], text[3:5], text[6:10], nil
}
