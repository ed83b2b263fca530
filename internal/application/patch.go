package application

import (
	"strings"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/validation"
)

// DraftPatch is a partial update of a draft; nil fields are left alone.
type DraftPatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`

	DeliveryType *domain.DeliveryType `json:"deliveryType,omitempty"`
	ServiceType  *domain.ServiceType  `json:"serviceType,omitempty"`
	DropOffDate  *domain.Date         `json:"dropOffDate,omitempty"`
	TimeSlot     *string              `json:"timeSlot,omitempty"`

	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Zip          *string `json:"zip,omitempty"`

	NumberOfBags    *string `json:"numberOfBags,omitempty"`
	LaundryType     *string `json:"laundryType,omitempty"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
	PromoCode       *string `json:"promoCode,omitempty"`

	NewCustomer *bool `json:"newCustomer,omitempty"`
	SMSConsent  *bool `json:"smsConsent,omitempty"`
	AgreeTerms  *bool `json:"agreeTerms,omitempty"`
}

// Fields lists the field ids the patch sets.
func (p DraftPatch) Fields() []validation.FieldID {
	var out []validation.FieldID
	add := func(set bool, f validation.FieldID) {
		if set {
			out = append(out, f)
		}
	}
	add(p.FirstName != nil, validation.FieldFirstName)
	add(p.LastName != nil, validation.FieldLastName)
	add(p.Phone != nil, validation.FieldPhone)
	add(p.Email != nil, validation.FieldEmail)
	add(p.DeliveryType != nil, validation.FieldDeliveryType)
	add(p.ServiceType != nil, validation.FieldServiceType)
	add(p.DropOffDate != nil, validation.FieldDropOffDate)
	add(p.TimeSlot != nil, validation.FieldTimeSlot)
	add(p.AddressLine1 != nil, validation.FieldAddressLine1)
	add(p.AddressLine2 != nil, validation.FieldAddressLine2)
	add(p.City != nil, validation.FieldCity)
	add(p.State != nil, validation.FieldState)
	add(p.Zip != nil, validation.FieldZip)
	add(p.NumberOfBags != nil, validation.FieldNumberOfBags)
	add(p.LaundryType != nil, validation.FieldLaundryType)
	add(p.SpecialRequests != nil, validation.FieldSpecialRequests)
	add(p.PromoCode != nil, validation.FieldPromoCode)
	add(p.NewCustomer != nil, validation.FieldNewCustomer)
	add(p.SMSConsent != nil, validation.FieldSMSConsent)
	add(p.AgreeTerms != nil, validation.FieldAgreeTerms)
	return out
}

func (p DraftPatch) applyTo(d *domain.OrderDraft) {
	setStr(&d.FirstName, p.FirstName)
	setStr(&d.LastName, p.LastName)
	setStr(&d.Phone, p.Phone)
	setStr(&d.Email, p.Email)
	if p.DeliveryType != nil {
		d.DeliveryType = *p.DeliveryType
	}
	if p.ServiceType != nil {
		d.ServiceType = *p.ServiceType
	}
	if p.DropOffDate != nil {
		d.DropOffDate = *p.DropOffDate
	}
	setStr(&d.TimeSlot, p.TimeSlot)
	setStr(&d.AddressLine1, p.AddressLine1)
	setStr(&d.AddressLine2, p.AddressLine2)
	setStr(&d.City, p.City)
	setStr(&d.State, p.State)
	setStr(&d.Zip, p.Zip)
	setStr(&d.NumberOfBags, p.NumberOfBags)
	setStr(&d.LaundryType, p.LaundryType)
	if p.SpecialRequests != nil {
		d.SpecialRequests = *p.SpecialRequests
	}
	setStr(&d.PromoCode, p.PromoCode)
	setBool(&d.NewCustomer, p.NewCustomer)
	setBool(&d.SMSConsent, p.SMSConsent)
	setBool(&d.AgreeTerms, p.AgreeTerms)
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
