package validation

import "github.com/RaikyD/laundry-intake-service/internal/domain"

func ValidateRaffleEntry(e domain.RaffleEntry) FieldErrors {
	errs := FieldErrors{}
	if blank(e.Name) {
		errs[FieldName] = "Name is required."
	}
	switch {
	case blank(e.Phone):
		errs[FieldPhone] = "Phone number is required."
	case !IsPhone(e.Phone):
		errs[FieldPhone] = msgPhoneFormat
	}
	if !blank(e.Email) && !IsEmail(e.Email) {
		errs[FieldEmail] = msgEmailFormat
	}
	if !e.SMSConsent {
		errs[FieldSMSConsent] = "You must agree to receive SMS marketing messages."
	}
	return errs
}
