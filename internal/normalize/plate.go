package normalize

import "strings"

// Only letters that have a Latin twin may appear on a plate (GOST R 50577-2018).
var plateToLatin = map[rune]rune{
	'А': 'A', 'а': 'A',
	'В': 'B', 'в': 'B',
	'Е': 'E', 'е': 'E',
	'К': 'K', 'к': 'K',
	'М': 'M', 'м': 'M',
	'Н': 'H', 'н': 'H',
	'О': 'O', 'о': 'O',
	'Р': 'P', 'р': 'P',
	'С': 'C', 'с': 'C',
	'Т': 'T', 'т': 'T',
	'У': 'Y', 'у': 'Y',
	'Х': 'X', 'х': 'X',
}

const plateSeriesLength = 6

// TransliteratePlate maps plate letters to their Latin look-alikes.
func TransliteratePlate(text string) string {
	if text == "" {
		return text
	}

	return strings.Map(func(r rune) rune {
		if latin, ok := plateToLatin[r]; ok {
			return latin
		}
		return r
	}, text)
}

// FormatPlateRegion pads a single-digit region code with a leading zero,
// e.g. A123BC7 becomes A123BC07.
func FormatPlateRegion(plate string) string {
	runes := []rune(plate)
	if len(runes) < plateSeriesLength+1 {
		return plate
	}

	region := runes[plateSeriesLength:]
	if len(region) != 1 || region[0] < '1' || region[0] > '9' {
		return plate
	}

	return string(runes[:plateSeriesLength]) + "0" + string(region)
}
