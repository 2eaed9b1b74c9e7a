package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQty(t *testing.T) {
	assert.Equal(t, 0, Qty("0"))
	assert.Equal(t, 0, Qty("-3"))
	assert.Equal(t, 0, Qty("two"))
	assert.Equal(t, 2, Qty(" 2 "))
	assert.Equal(t, 50, Qty("500"))
}

func TestQ(t *testing.T) {
	q, ok := Q("  ")
	assert.True(t, ok)
	assert.Equal(t, "", q)
	_, ok = Q("air max 90")
	assert.True(t, ok)
	_, ok = Q("<script>")
	assert.False(t, ok)
}

func TestEmailAndPassword(t *testing.T) {
	_, ok := Email("ann@stride.test")
	assert.True(t, ok)
	_, ok = Email("ann@")
	assert.False(t, ok)
	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))
}

func TestSize(t *testing.T) {
	v, ok := Size("9.5")
	assert.True(t, ok)
	assert.Equal(t, 9.5, v)
	_, ok = Size("")
	assert.False(t, ok)
}

func TestCardFields(t *testing.T) {
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	assert.True(t, CardNumber("4242 4242 4242 4242"))
	assert.False(t, CardNumber("4242424242424242"))
	assert.True(t, CVV("123"))
	assert.False(t, CVV("12a"))
	assert.True(t, Expiry("10/26", now))
	assert.True(t, Expiry("01/30", now))
	assert.False(t, Expiry("09/26", now))
	assert.False(t, Expiry("13/30", now))
}
