package customer

import (
	"strings"

	"github.com/goliatone/go-customerform/pkg/forms"
)

// validationMessages maps email failure keys to the text shown to the user.
var validationMessages = map[string]string{
	"required": "Please enter your email address.",
	"email":    "Please enter a valid email address.",
}

// ValidationMessage returns the user-facing text for a failure key, or ""
// when the key has no message.
func ValidationMessage(key string) string {
	return validationMessages[key]
}

// MessageFor builds the live email message for a control: empty until the
// user has interacted with it and it reports failures, then the mapped
// message of each failure joined by a single space. Unmapped keys add no text.
func MessageFor(c forms.Control) string {
	if c == nil {
		return ""
	}
	if !(c.Touched() || c.Dirty()) || len(c.Errors()) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c.Errors()))
	for _, key := range c.Errors().Keys() {
		if msg := ValidationMessage(key); msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, " ")
}
