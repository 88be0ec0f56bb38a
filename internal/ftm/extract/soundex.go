package extract

import "strings"

var soundexCode = map[byte]byte{
	'B': '1', 'F': '1', 'P': '1', 'V': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

// Soundex encodes word using the classic American Soundex algorithm: a
// letter followed by three digits.
func Soundex(word string) string {
	w := strings.ToUpper(word)
	var letters []byte
	for i := 0; i < len(w); i++ {
		c := w[i]
		if c >= 'A' && c <= 'Z' {
			letters = append(letters, c)
		}
	}
	if len(letters) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteByte(letters[0])
	lastCode := soundexCode[letters[0]]

	for i := 1; i < len(letters) && out.Len() < 4; i++ {
		code, ok := soundexCode[letters[i]]
		if !ok {
			lastCode = 0
			continue
		}
		if code != lastCode {
			out.WriteByte(code)
		}
		lastCode = code
	}

	result := out.String()
	for len(result) < 4 {
		result += "0"
	}
	return result
}
