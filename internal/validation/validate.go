package validation

import (
	"github.com/RaikyD/laundry-intake-service/internal/domain"
)

type FieldID string

const (
	FieldFirstName       FieldID = "firstName"
	FieldLastName        FieldID = "lastName"
	FieldPhone           FieldID = "phone"
	FieldEmail           FieldID = "email"
	FieldDeliveryType    FieldID = "deliveryType"
	FieldServiceType     FieldID = "serviceType"
	FieldDropOffDate     FieldID = "dropOffDate"
	FieldTimeSlot        FieldID = "timeSlot"
	FieldAddressLine1    FieldID = "addressLine1"
	FieldAddressLine2    FieldID = "addressLine2"
	FieldCity            FieldID = "city"
	FieldState           FieldID = "state"
	FieldZip             FieldID = "zip"
	FieldNumberOfBags    FieldID = "numberOfBags"
	FieldLaundryType     FieldID = "laundryType"
	FieldSpecialRequests FieldID = "specialRequests"
	FieldPromoCode       FieldID = "promoCode"
	FieldNewCustomer     FieldID = "newCustomer"
	FieldSMSConsent      FieldID = "smsConsent"
	FieldAgreeTerms      FieldID = "agreeTerms"

	// raffle form
	FieldName FieldID = "name"
)

const (
	msgDateRequired   = "Please pick a drop-off date."
	MsgInvalidPromo   = "Invalid promo code."
	msgPhoneFormat    = "Enter a valid 10-digit US phone number."
	msgEmailFormat    = "Enter a valid email address."
	msgSMSConsent     = "You must agree to receive SMS updates about your order."
	msgTermsAgreement = "You must agree to the terms and conditions to continue."
)

type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func ok() Result { return Result{Valid: true} }
func invalid(msg string) Result { return Result{Message: msg} }

// Context is everything a rule may depend on besides the draft itself.
type Context struct {
	Today domain.Date
}

// Validate evaluates one field of a draft snapshot. It has no side effects.
func Validate(field FieldID, d domain.OrderDraft, ctx Context) Result {
	switch field {
	case FieldFirstName:
		return required(d.FirstName, "First Name is required.")
	case FieldLastName:
		return required(d.LastName, "Last Name is required.")
	case FieldPhone:
		if blank(d.Phone) {
			return invalid("Phone Number is required.")
		}
		if !IsPhone(d.Phone) {
			return invalid(msgPhoneFormat)
		}
	case FieldEmail:
		if blank(d.Email) {
			return invalid("Email is required.")
		}
		if !IsEmail(d.Email) {
			return invalid(msgEmailFormat)
		}
	case FieldDeliveryType:
		if d.DeliveryType != domain.DeliveryPickup && d.DeliveryType != domain.DeliveryDropOff {
			return invalid("Please choose pickup & delivery or drop-off.")
		}
	case FieldServiceType:
		if d.ServiceType == "" {
			return invalid("Please select a service.")
		}
		if !ServiceAllowed(d.DeliveryType, d.ServiceType) {
			return invalid("Basic service is not available for pickup & delivery.")
		}
	case FieldDropOffDate:
		return ValidateDate(d.DropOffDate, ctx.Today, PolicyFor(d.DeliveryType))
	case FieldTimeSlot:
		if !oneOf(d.TimeSlot, domain.TimeSlots) {
			return invalid("Please pick a time slot.")
		}
	case FieldAddressLine1:
		if d.NeedsAddress() {
			return required(d.AddressLine1, "Address is required for pickup & delivery.")
		}
	case FieldCity:
		if d.NeedsAddress() {
			return required(d.City, "City is required for pickup & delivery.")
		}
	case FieldState:
		if d.NeedsAddress() {
			return required(d.State, "State is required for pickup & delivery.")
		}
	case FieldZip:
		if !d.NeedsAddress() {
			return ok()
		}
		if blank(d.Zip) {
			return invalid("ZIP code is required for pickup & delivery.")
		}
		if !IsZip(d.Zip) {
			return invalid("Enter a valid ZIP code.")
		}
	case FieldNumberOfBags:
		if !oneOf(d.NumberOfBags, domain.BagCounts) {
			return invalid("Please select the number of bags.")
		}
	case FieldLaundryType:
		if !oneOf(d.LaundryType, domain.LaundryTypes) {
			return invalid("Laundry Type is required.")
		}
	case FieldSMSConsent:
		if !d.SMSConsent {
			return invalid(msgSMSConsent)
		}
	case FieldAgreeTerms:
		if !d.AgreeTerms {
			return invalid(msgTermsAgreement)
		}
	}
	return ok()
}

// ValidateAll collects the failures of every listed field.
func ValidateAll(fields []FieldID, d domain.OrderDraft, ctx Context) FieldErrors {
	errs := FieldErrors{}
	for _, f := range fields {
		if r := Validate(f, d, ctx); !r.Valid {
			errs[f] = r.Message
		}
	}
	return errs
}

func required(v, msg string) Result {
	if blank(v) {
		return invalid(msg)
	}
	return ok()
}
