package customer

import "github.com/goliatone/go-customerform/pkg/forms"

const (
	NotifyByEmail = "email"
	NotifyByText  = "text"
)

// PhoneValidators derives the phone validator set from the notification
// preference: text messages need a phone number, everything else needs none.
func PhoneValidators(notifyVia any) []forms.ValidatorFunc {
	if notifyVia == NotifyByText {
		return []forms.ValidatorFunc{forms.Required}
	}
	return nil
}
