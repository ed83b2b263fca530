package validation

import (
	"testing"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCtx = Context{Today: domain.NewDate(2025, time.July, 28)}

func TestValidateConditionalAddress(t *testing.T) {
	d := domain.OrderDraft{DeliveryType: domain.DeliveryDropOff}
	for _, f := range []FieldID{FieldAddressLine1, FieldCity, FieldState, FieldZip} {
		assert.True(t, Validate(f, d, testCtx).Valid, f)
	}

	d.DeliveryType = domain.DeliveryPickup
	for _, f := range []FieldID{FieldAddressLine1, FieldCity, FieldState, FieldZip} {
		assert.False(t, Validate(f, d, testCtx).Valid, f)
	}
	assert.True(t, Validate(FieldAddressLine2, d, testCtx).Valid)

	d.Zip = "941"
	assert.Equal(t, "Enter a valid ZIP code.", Validate(FieldZip, d, testCtx).Message)
}

func TestValidateServiceType(t *testing.T) {
	d := domain.OrderDraft{DeliveryType: domain.DeliveryPickup, ServiceType: domain.ServiceBasic}
	assert.False(t, Validate(FieldServiceType, d, testCtx).Valid)

	d.DeliveryType = domain.DeliveryDropOff
	assert.True(t, Validate(FieldServiceType, d, testCtx).Valid)

	d.ServiceType = ""
	assert.Equal(t, "Please select a service.", Validate(FieldServiceType, d, testCtx).Message)
}

func TestValidateDatePolicyFollowsDelivery(t *testing.T) {
	tuesday := testCtx.Today.AddDays(1)
	d := domain.OrderDraft{DeliveryType: domain.DeliveryDropOff, DropOffDate: tuesday}
	assert.True(t, Validate(FieldDropOffDate, d, testCtx).Valid)

	d.DeliveryType = domain.DeliveryPickup
	assert.False(t, Validate(FieldDropOffDate, d, testCtx).Valid)
}

func TestValidateIsDeterministic(t *testing.T) {
	d := domain.OrderDraft{Phone: "415-555-12"}
	first := Validate(FieldPhone, d, testCtx)
	second := Validate(FieldPhone, d, testCtx)
	assert.Equal(t, first, second)
	assert.False(t, first.Valid)
}

func TestValidateAllListsEveryField(t *testing.T) {
	errs := ValidateAll([]FieldID{FieldFirstName, FieldEmail, FieldSMSConsent, FieldAgreeTerms}, domain.OrderDraft{Email: "x"}, testCtx)
	require.Len(t, errs, 4)

	err := errs.Err()
	ve, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "validation failed: agreeTerms, email, firstName, smsConsent", ve.Error())

	assert.NoError(t, FieldErrors{}.Err())
}

func TestValidateRaffleEntry(t *testing.T) {
	errs := ValidateRaffleEntry(domain.RaffleEntry{Name: "Ana", Phone: "6505551234", SMSConsent: true})
	assert.Empty(t, errs)

	errs = ValidateRaffleEntry(domain.RaffleEntry{Phone: "123", Email: "nope"})
	assert.Len(t, errs, 4)
	assert.Contains(t, errs, FieldName)
	assert.Contains(t, errs, FieldPhone)
	assert.Contains(t, errs, FieldEmail)
	assert.Contains(t, errs, FieldSMSConsent)
}
