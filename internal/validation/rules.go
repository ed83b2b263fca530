package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
)

var (
	phonePattern = regexp.MustCompile(`^\(?([0-9]{3})\)?[- ]?([0-9]{3})[- ]?([0-9]{4})$`)
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

func IsPhone(s string) bool { return phonePattern.MatchString(s) }

func IsEmail(s string) bool { return emailPattern.MatchString(s) }

func IsZip(s string) bool { return zipPattern.MatchString(s) }

// NormalizeUSPhone returns the E.164 form of a valid 10-digit US number.
func NormalizeUSPhone(s string) (string, bool) {
	m := phonePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return "+1" + m[1] + m[2] + m[3], true
}

// AllowedServiceTypes is the service option set for a delivery type.
func AllowedServiceTypes(dt domain.DeliveryType) []domain.ServiceType {
	if dt == domain.DeliveryPickup {
		return []domain.ServiceType{domain.ServicePremium}
	}
	return []domain.ServiceType{domain.ServicePremium, domain.ServiceBasic}
}

func ServiceAllowed(dt domain.DeliveryType, st domain.ServiceType) bool {
	for _, v := range AllowedServiceTypes(dt) {
		if v == st {
			return true
		}
	}
	return false
}

type DatePolicy int

const (
	// PolicyWeekdays allows Monday through Friday.
	PolicyWeekdays DatePolicy = iota
	// PolicyPickupDays allows Monday, Wednesday and Friday only.
	PolicyPickupDays
)

func (p DatePolicy) Allows(day time.Weekday) bool {
	switch p {
	case PolicyPickupDays:
		return day == time.Monday || day == time.Wednesday || day == time.Friday
	default:
		return day != time.Saturday && day != time.Sunday
	}
}

// PolicyFor picks the date policy of a delivery flow.
func PolicyFor(dt domain.DeliveryType) DatePolicy {
	if dt == domain.DeliveryPickup {
		return PolicyPickupDays
	}
	return PolicyWeekdays
}

func ValidateDate(d, today domain.Date, policy DatePolicy) Result {
	if d.IsZero() {
		return invalid(msgDateRequired)
	}
	if !d.After(today) {
		return invalid("Drop-off date must be after today.")
	}
	if !policy.Allows(d.Weekday()) {
		if policy == PolicyPickupDays {
			return invalid("Pickups are available Monday, Wednesday and Friday only.")
		}
		return invalid("Drop-offs are available on weekdays only.")
	}
	return ok()
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
