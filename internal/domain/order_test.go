package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionDAG(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{OrderStatusInitialized, OrderStatusConfirmed, true},
		{OrderStatusInitialized, OrderStatusAborted, true},
		{OrderStatusInitialized, OrderStatusPaid, false},
		{OrderStatusConfirmed, OrderStatusPaid, true},
		{OrderStatusConfirmed, OrderStatusAborted, true},
		{OrderStatusConfirmed, OrderStatusInitialized, false},
		{OrderStatusPaid, OrderStatusAborted, false},
		{OrderStatusPaid, OrderStatusConfirmed, false},
		{OrderStatusAborted, OrderStatusConfirmed, false},
		{OrderStatusAborted, OrderStatusPaid, false},
	}
	for _, tc := range cases {
		o := &Order{Status: tc.from}
		err := o.Transition(tc.to)
		if tc.ok {
			assert.NoErrorf(t, err, "%s -> %s should be legal", tc.from, tc.to)
			assert.Equal(t, tc.to, o.Status)
		} else {
			assert.ErrorIsf(t, err, ErrInvalidTransition, "%s -> %s should be illegal", tc.from, tc.to)
			assert.Equal(t, tc.from, o.Status, "status must not move on a rejected transition")
		}
	}
}

func validDraft() OrderDraft {
	return OrderDraft{
		Client: Client{
			UserID:    uuid.New(),
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
		Items: []DraftItem{
			{ProductID: uuid.New(), Quantity: 2},
		},
	}
}

func TestDraftValidate(t *testing.T) {
	require.NoError(t, validDraft().Validate())

	d := validDraft()
	d.Client.UserID = uuid.Nil
	assert.ErrorIs(t, d.Validate(), ErrMalformedOrder)

	d = validDraft()
	d.Client.Email = "not-an-email"
	assert.ErrorIs(t, d.Validate(), ErrMalformedOrder)

	d = validDraft()
	d.Items = nil
	assert.ErrorIs(t, d.Validate(), ErrMalformedOrder)

	d = validDraft()
	d.Items[0].Quantity = 0
	assert.ErrorIs(t, d.Validate(), ErrMalformedOrder)

	d = validDraft()
	d.Items[0].ProductID = uuid.Nil
	assert.ErrorIs(t, d.Validate(), ErrMalformedOrder)
}

func TestDraftValidateShippingAddress(t *testing.T) {
	d := validDraft()
	d.IncludesShipping = true
	d.ShippingAddress = Address{Country: "BR", State: "SP"}
	assert.ErrorIs(t, d.Validate(), ErrMalformedOrder)

	d.ShippingAddress = Address{
		Country:      "BR",
		State:        "SP",
		City:         "Sao Paulo",
		Neighborhood: "Pinheiros",
	}
	assert.NoError(t, d.Validate())

	// Without shipping the address may stay empty.
	d.IncludesShipping = false
	d.ShippingAddress = Address{}
	assert.NoError(t, d.Validate())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 19.98, Round2(9.99*2))
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, 10.0, Round2(10.004))
	assert.Equal(t, 123.46, Round2(123.456))
}
