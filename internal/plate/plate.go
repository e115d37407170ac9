package plate

import (
	"fmt"
	"regexp"
	"strings"
)

// AllowedLetters are the Cyrillic letters permitted on Russian plates (GOST R 50577-2018).
const AllowedLetters = "АВЕКМНОРСТУХ"

type Category string

const (
	CategoryStandard   Category = "standard"
	CategoryTrailer    Category = "trailer"
	CategoryTractor    Category = "tractor"
	CategoryMotorcycle Category = "motorcycle"
)

// Plate is a registration number split into the parts the form collects.
// Which fields are meaningful depends on Category.
type Plate struct {
	Category Category `json:"category"`

	// standard: L NNN LL | RR(R)
	Letter1 string `json:"letter1,omitempty"`
	Digits  string `json:"digits,omitempty"`
	Letters string `json:"letters,omitempty"`
	Region  string `json:"region,omitempty"`

	// trailer: LL NNNN | RR(R), region shared with standard
	TrailerLetters string `json:"trailerLetters,omitempty"`
	TrailerDigits  string `json:"trailerDigits,omitempty"`

	// tractor and motorcycle: NNNN on top, LL RR(R) below
	TopDigits     string `json:"topDigits,omitempty"`
	BottomLetters string `json:"bottomLetters,omitempty"`
	BottomRegion  string `json:"bottomRegion,omitempty"`
}

var (
	threeDigits = regexp.MustCompile(`^\d{3}$`)
	fourDigits  = regexp.MustCompile(`^\d{4}$`)
	regionCode  = regexp.MustCompile(`^\d{2,3}$`)

	standardPattern = regexp.MustCompile(`^([АВЕКМНОРСТУХ])(\d{3})([АВЕКМНОРСТУХ]{2})(\d{2,3})$`)
	trailerPattern  = regexp.MustCompile(`^([АВЕКМНОРСТУХ]{2})(\d{4})(\d{2,3})$`)
	tractorPattern  = regexp.MustCompile(`^(\d{4})([АВЕКМНОРСТУХ]{2})(\d{2,3})$`)
)

// Clean trims the plate, drops spaces and hyphens and uppercases it.
func Clean(raw string) string {
	normalized := strings.TrimSpace(raw)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ToUpper(normalized)
	return normalized
}

// Validate returns every problem found in p. An empty result means the plate is valid.
func (p Plate) Validate() []string {
	var errs []string

	switch p.Category {
	case CategoryStandard:
		errs = append(errs, checkLetters(p.Letter1, 1, "first letter")...)
		errs = append(errs, checkDigits(p.Digits, threeDigits, 3, "digits")...)
		errs = append(errs, checkLetters(p.Letters, 2, "letters")...)
		errs = append(errs, checkRegion(p.Region)...)
	case CategoryTrailer:
		errs = append(errs, checkLetters(p.TrailerLetters, 2, "trailer letters")...)
		errs = append(errs, checkDigits(p.TrailerDigits, fourDigits, 4, "trailer digits")...)
		errs = append(errs, checkRegion(p.Region)...)
	case CategoryTractor, CategoryMotorcycle:
		errs = append(errs, checkDigits(p.TopDigits, fourDigits, 4, "top digits")...)
		errs = append(errs, checkLetters(p.BottomLetters, 2, "bottom letters")...)
		errs = append(errs, checkRegion(p.BottomRegion)...)
	case "":
		errs = append(errs, "category is required")
	default:
		errs = append(errs, fmt.Sprintf("unknown category %q", p.Category))
	}

	return errs
}

// Text joins the parts into a single plate string, or "" when a part is missing.
func (p Plate) Text() string {
	switch p.Category {
	case CategoryStandard:
		if p.Letter1 != "" && p.Digits != "" && p.Letters != "" && p.Region != "" {
			return p.Letter1 + p.Digits + p.Letters + p.Region
		}
	case CategoryTrailer:
		if p.TrailerLetters != "" && p.TrailerDigits != "" && p.Region != "" {
			return p.TrailerLetters + p.TrailerDigits + p.Region
		}
	case CategoryTractor, CategoryMotorcycle:
		if p.TopDigits != "" && p.BottomLetters != "" && p.BottomRegion != "" {
			return p.TopDigits + p.BottomLetters + p.BottomRegion
		}
	}
	return ""
}

// Parse splits a plate string of the given category into parts.
func Parse(text string, category Category) (Plate, bool) {
	cleaned := strings.ToUpper(strings.Join(strings.Fields(text), ""))

	switch category {
	case CategoryStandard:
		if m := standardPattern.FindStringSubmatch(cleaned); m != nil {
			return Plate{Category: category, Letter1: m[1], Digits: m[2], Letters: m[3], Region: m[4]}, true
		}
	case CategoryTrailer:
		if m := trailerPattern.FindStringSubmatch(cleaned); m != nil {
			return Plate{Category: category, TrailerLetters: m[1], TrailerDigits: m[2], Region: m[3]}, true
		}
	case CategoryTractor, CategoryMotorcycle:
		if m := tractorPattern.FindStringSubmatch(cleaned); m != nil {
			return Plate{Category: category, TopDigits: m[1], BottomLetters: m[2], BottomRegion: m[3]}, true
		}
	}
	return Plate{}, false
}

// ValidRegion reports whether region is a 2-3 digit code that is not all zeros.
func ValidRegion(region string) bool {
	return regionCode.MatchString(region) && strings.Trim(region, "0") != ""
}

func checkLetters(value string, count int, field string) []string {
	if value == "" {
		return []string{field + " is required"}
	}
	runes := []rune(value)
	if len(runes) != count {
		return []string{fmt.Sprintf("%s must contain exactly %d letter(s)", field, count)}
	}
	for _, r := range runes {
		if !strings.ContainsRune(AllowedLetters, r) {
			return []string{fmt.Sprintf("letter %q is not allowed, use one of %s", string(r), AllowedLetters)}
		}
	}
	return nil
}

func checkDigits(value string, pattern *regexp.Regexp, count int, field string) []string {
	if value == "" {
		return []string{field + " are required"}
	}
	if !pattern.MatchString(value) {
		return []string{fmt.Sprintf("%s must contain exactly %d digits", field, count)}
	}
	return nil
}

func checkRegion(region string) []string {
	switch {
	case region == "":
		return []string{"region is required"}
	case !regionCode.MatchString(region):
		return []string{"region must contain 2 or 3 digits"}
	case strings.Trim(region, "0") == "":
		return []string{"region cannot consist of zeros only"}
	}
	return nil
}
