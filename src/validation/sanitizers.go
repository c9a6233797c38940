package validation

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"github.com/username/momoledger/src/models"
)

var strictHTMLPolicy *bluemonday.Policy

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy() // removes all HTML tags
}

// SanitizeText removes all HTML tags and attributes from an input string
// and strips non-printable characters, allowing common whitespace.
func SanitizeText(s string) string {
	cleaned := strictHTMLPolicy.Sanitize(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, cleaned)
}

// SanitizeTransactionInput cleans every free-text field of a create or
// update payload in place. Numeric fields need no cleaning.
func SanitizeTransactionInput(in *models.TransactionInput) {
	sanitizePtr(in.Sender)
	sanitizePtr(in.Recipient)
	sanitizePtr(in.PhoneNumber)
	sanitizePtr(in.TransactionID)
	sanitizePtr(in.Date)
	sanitizePtr(in.Message)
}

func sanitizePtr(s *string) {
	if s != nil {
		*s = SanitizeText(*s)
	}
}
