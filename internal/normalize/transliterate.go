package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var cyrillicToLatin = map[rune]string{
	'А': "A", 'а': "A",
	'Б': "B", 'б': "B",
	'В': "V", 'в': "V",
	'Г': "G", 'г': "G",
	'Д': "D", 'д': "D",
	'Е': "E", 'е': "E",
	'Ё': "E", 'ё': "E",
	'Ж': "ZH", 'ж': "ZH",
	'З': "Z", 'з': "Z",
	'И': "I", 'и': "I",
	'Й': "Y", 'й': "Y",
	'К': "K", 'к': "K",
	'Л': "L", 'л': "L",
	'М': "M", 'м': "M",
	'Н': "N", 'н': "N",
	'О': "O", 'о': "O",
	'П': "P", 'п': "P",
	'Р': "R", 'р': "R",
	'С': "S", 'с': "S",
	'Т': "T", 'т': "T",
	'У': "U", 'у': "U",
	'Ф': "F", 'ф': "F",
	'Х': "KH", 'х': "KH",
	'Ц': "TS", 'ц': "TS",
	'Ч': "CH", 'ч': "CH",
	'Ш': "SH", 'ш': "SH",
	'Щ': "SHCH", 'щ': "SHCH",
	'Ы': "Y", 'ы': "Y",
	'Ъ': "IE", 'ъ': "IE",
	'Э': "E", 'э': "E",
	'Ю': "IU", 'ю': "IU",
	'Я': "IA", 'я': "IA",
	'№': "No",
}

// softSignVowels holds the Latin form a vowel takes right after a soft sign.
// The iotated vowels collapse to a single letter because the soft sign
// already contributes the Y.
var softSignVowels = map[rune]string{
	'А': "A", 'а': "A",
	'Е': "E", 'е': "E",
	'Ё': "E", 'ё': "E",
	'И': "I", 'и': "I",
	'О': "O", 'о': "O",
	'У': "U", 'у': "U",
	'Ы': "Y", 'ы': "Y",
	'Э': "E", 'э': "E",
	'Ю': "U", 'ю': "U",
	'Я': "A", 'я': "A",
}

func isSoftSign(r rune) bool {
	return r == 'Ь' || r == 'ь'
}

// Й and Ё can arrive as И/Е followed by a combining breve or diaeresis.
func isCombiningMark(r rune) bool {
	return r == '\u0306' || r == '\u0308'
}

// runeAt returns the rune to look up at src[i] and how many runes it spans.
// A letter and a following combining mark are composed only when the result
// is in the table, so any other sequence is copied through untouched.
func runeAt(src []rune, i int) (rune, int) {
	if i+1 < len(src) && isCombiningMark(src[i+1]) {
		composed := []rune(norm.NFC.String(string(src[i : i+2])))
		if len(composed) == 1 {
			if _, ok := cyrillicToLatin[composed[0]]; ok {
				return composed[0], 2
			}
		}
	}
	return src[i], 1
}

// Transliterate converts Cyrillic text to uppercase Latin. Runes missing from
// the table (Latin letters, digits, punctuation, whitespace) are kept as is.
func Transliterate(text string) string {
	if text == "" {
		return text
	}

	src := []rune(text)

	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(src) {
		r, width := runeAt(src, i)

		if isSoftSign(r) {
			if i+1 < len(src) {
				next, nextWidth := runeAt(src, i+1)
				if vowel, ok := softSignVowels[next]; ok {
					b.WriteByte('Y')
					b.WriteString(vowel)
					i += 1 + nextWidth
					continue
				}
			}
			// Перед согласной или в конце строки мягкий знак не пишется
			i++
			continue
		}

		if latin, ok := cyrillicToLatin[r]; ok {
			b.WriteString(latin)
		} else {
			b.WriteString(string(src[i : i+width]))
		}
		i += width
	}

	return b.String()
}

// ToUpper uppercases Latin and Cyrillic runes with the simple Unicode
// mapping. No language tailoring is applied.
func ToUpper(text string) string {
	return strings.ToUpper(text)
}
