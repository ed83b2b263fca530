package application

import (
	"errors"
	"strings"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/validation"
)

var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrWrongStep        = errors.New("operation not allowed at the current step")
	ErrFieldNotVisible  = errors.New("field is not editable at the current step")
	ErrAlreadySubmitted = errors.New("draft already submitted")
)

type Step int

const (
	StepScheduling Step = iota
	StepContactAndDetails
	StepReview
	StepSubmitted
)

var stepNames = map[Step]string{
	StepScheduling:        "scheduling",
	StepContactAndDetails: "contact_and_details",
	StepReview:            "review",
	StepSubmitted:         "submitted",
}

func (s Step) String() string { return stepNames[s] }

func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

var (
	schedulingFields = []validation.FieldID{
		validation.FieldDeliveryType,
		validation.FieldServiceType,
		validation.FieldDropOffDate,
		validation.FieldTimeSlot,
	}
	contactFields = []validation.FieldID{
		validation.FieldFirstName,
		validation.FieldLastName,
		validation.FieldPhone,
		validation.FieldEmail,
		validation.FieldLaundryType,
		validation.FieldNumberOfBags,
		validation.FieldSpecialRequests,
		validation.FieldPromoCode,
		validation.FieldNewCustomer,
	}
	addressFields = []validation.FieldID{
		validation.FieldAddressLine1,
		validation.FieldAddressLine2,
		validation.FieldCity,
		validation.FieldState,
		validation.FieldZip,
	}
	reviewFields = []validation.FieldID{
		validation.FieldSMSConsent,
		validation.FieldAgreeTerms,
	}
)

// Draft is one customer's in-progress order form.
type Draft struct {
	ID        string                 `json:"id"`
	Step      Step                   `json:"step"`
	Data      domain.OrderDraft      `json:"data"`
	Errors    validation.FieldErrors `json:"errors,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func NewDraft(id string, now time.Time) *Draft {
	return &Draft{
		ID:        id,
		Step:      StepScheduling,
		Data:      domain.OrderDraft{State: domain.DefaultState},
		Errors:    validation.FieldErrors{},
		UpdatedAt: now,
	}
}

// VisibleFields lists the fields shown at the draft's current step, in display order.
func VisibleFields(d *Draft) []validation.FieldID {
	switch d.Step {
	case StepScheduling:
		return append([]validation.FieldID(nil), schedulingFields...)
	case StepContactAndDetails:
		fields := append([]validation.FieldID(nil), contactFields...)
		if d.Data.NeedsAddress() {
			fields = append(fields, addressFields...)
		}
		return fields
	case StepReview:
		return append([]validation.FieldID(nil), reviewFields...)
	}
	return nil
}

// requiredUpTo is every field checked before leaving the given step.
func requiredUpTo(step Step, d domain.OrderDraft) []validation.FieldID {
	var fields []validation.FieldID
	fields = append(fields, schedulingFields...)
	if step == StepScheduling {
		return fields
	}
	fields = append(fields, contactFields...)
	if d.NeedsAddress() {
		fields = append(fields, addressFields...)
	}
	if step == StepContactAndDetails {
		return fields
	}
	return append(fields, reviewFields...)
}

// stepFields are the fields validated when leaving a single step.
func stepFields(step Step, d domain.OrderDraft) []validation.FieldID {
	switch step {
	case StepScheduling:
		return schedulingFields
	case StepContactAndDetails:
		if d.NeedsAddress() {
			return append(append([]validation.FieldID(nil), contactFields...), addressFields...)
		}
		return contactFields
	case StepReview:
		return reviewFields
	}
	return nil
}

// Apply writes the set fields of a patch. Only fields visible at the current step may change.
func (d *Draft) Apply(p DraftPatch, now time.Time) error {
	if d.Step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	visible := map[validation.FieldID]bool{}
	for _, f := range VisibleFields(d) {
		visible[f] = true
	}
	touched := p.Fields()
	for _, f := range touched {
		if !visible[f] {
			return ErrFieldNotVisible
		}
	}

	prevCode := d.Data.PromoCode
	p.applyTo(&d.Data)

	if p.DeliveryType != nil && !validation.ServiceAllowed(d.Data.DeliveryType, d.Data.ServiceType) {
		d.Data.ServiceType = ""
	}
	if d.Data.PromoCode != prevCode {
		d.Data.PromoValid = false
		delete(d.Errors, validation.FieldPromoCode)
	}
	for _, f := range touched {
		if f != validation.FieldPromoCode {
			delete(d.Errors, f)
		}
	}
	d.UpdatedAt = now
	return nil
}

// Next advances one step once the current step validates.
func (d *Draft) Next(ctx validation.Context, now time.Time) error {
	if d.Step != StepScheduling && d.Step != StepContactAndDetails {
		return ErrWrongStep
	}
	errs := validation.ValidateAll(stepFields(d.Step, d.Data), d.Data, ctx)
	d.setErrors(errs)
	d.UpdatedAt = now
	if err := errs.Err(); err != nil {
		return err
	}
	d.Step++
	return nil
}

// Back returns to the previous step without touching any entered value.
func (d *Draft) Back(now time.Time) error {
	if d.Step == StepScheduling || d.Step == StepSubmitted {
		return ErrWrongStep
	}
	d.Step--
	d.setErrors(validation.FieldErrors{})
	d.UpdatedAt = now
	return nil
}

// VerifyPromo checks a code against the known set and records the outcome on the draft.
// Calling it again with the same code gives the same result.
func (d *Draft) VerifyPromo(code string, codes PromoCodes, now time.Time) (bool, error) {
	if d.Step != StepContactAndDetails {
		return false, ErrWrongStep
	}
	normalized := NormalizePromo(code)
	d.Data.PromoCode = normalized
	d.Data.PromoValid = codes.Contains(normalized)
	if d.Errors == nil {
		d.Errors = validation.FieldErrors{}
	}
	if d.Data.PromoValid {
		delete(d.Errors, validation.FieldPromoCode)
	} else {
		d.Errors[validation.FieldPromoCode] = validation.MsgInvalidPromo
	}
	d.UpdatedAt = now
	return d.Data.PromoValid, nil
}

// CheckSubmittable validates every step at once. Failures are recorded on the draft and
// returned together; the draft stays in Review.
func (d *Draft) CheckSubmittable(ctx validation.Context) error {
	if d.Step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	if d.Step != StepReview {
		return ErrWrongStep
	}
	errs := validation.ValidateAll(requiredUpTo(StepReview, d.Data), d.Data, ctx)
	d.setErrors(errs)
	return errs.Err()
}

func (d *Draft) setErrors(errs validation.FieldErrors) {
	next := validation.FieldErrors{}
	for f, msg := range errs {
		next[f] = msg
	}
	if msg, ok := d.Errors[validation.FieldPromoCode]; ok {
		next[validation.FieldPromoCode] = msg
	}
	d.Errors = next
}

func (d *Draft) clone() Draft {
	c := *d
	c.Errors = validation.FieldErrors{}
	for f, msg := range d.Errors {
		c.Errors[f] = msg
	}
	return c
}

type PromoCodes map[string]struct{}

func NewPromoCodes(codes []string) PromoCodes {
	set := PromoCodes{}
	for _, c := range codes {
		if c = NormalizePromo(c); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

func (p PromoCodes) Contains(code string) bool {
	_, ok := p[NormalizePromo(code)]
	return ok
}

func NormalizePromo(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
