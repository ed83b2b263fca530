package domain

import (
	"github.com/google/uuid"
	"time"
)

type DeliveryType string

const (
	DeliveryPickup  DeliveryType = "Pickup & Delivery"
	DeliveryDropOff DeliveryType = "Drop-off"
)

type ServiceType string

const (
	ServicePremium ServiceType = "premium"
	ServiceBasic   ServiceType = "basic"
)

type Status string

const (
	StatusReceived   Status = "received"
	StatusDroppedOff Status = "dropped_off"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var Statuses = []Status{StatusReceived, StatusDroppedOff, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

const DefaultState = "CA"

var (
	TimeSlots    = []string{"12:00 PM - 02:00 PM", "07:00 PM - 09:00 PM"}
	BagCounts    = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10+"}
	LaundryTypes = []string{"mixed", "clothes", "bed_linen", "towels"}
)

// OrderDraft is the in-progress form data. It is also the persisted payload of an Order.
type OrderDraft struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`

	DeliveryType DeliveryType `json:"deliveryType"`
	ServiceType  ServiceType  `json:"serviceType"`
	DropOffDate  Date         `json:"dropOffDate"`
	TimeSlot     string       `json:"timeSlot"`

	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`

	NumberOfBags    string `json:"numberOfBags"`
	LaundryType     string `json:"laundryType"`
	SpecialRequests string `json:"specialRequests"`
	PromoCode       string `json:"promoCode"`
	PromoValid      bool   `json:"promoValid"`

	NewCustomer bool `json:"newCustomer"`
	SMSConsent  bool `json:"smsConsent"`
	AgreeTerms  bool `json:"agreeTerms"`
}

func (d OrderDraft) NeedsAddress() bool {
	return d.DeliveryType == DeliveryPickup
}

type Order struct {
	ID uuid.UUID `json:"id"`
	OrderDraft
	OrderID   string    `json:"orderId"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderUpdate carries the admin-mutable fields; nil means unchanged.
type OrderUpdate struct {
	Status *Status `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}
