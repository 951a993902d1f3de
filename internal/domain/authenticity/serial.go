package authenticity

import (
	"regexp"
	"strings"
)

// serialTokenRx matches serial-number-shaped tokens in extracted text:
// 6-17 alphanumerics, at least one digit.
var serialTokenRx = regexp.MustCompile(`\b[A-Z0-9]{6,17}\b`)

var hasDigitRx = regexp.MustCompile(`\d`)

// FindSerialToken returns the first serial-shaped token in the text, or "".
func FindSerialToken(text string) string {
	for _, tok := range serialTokenRx.FindAllString(strings.ToUpper(text), -1) {
		if hasDigitRx.MatchString(tok) {
			return tok
		}
	}
	return ""
}
