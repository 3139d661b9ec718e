package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("8.50 TND")
	require.NoError(t, err)
	assert.Equal(t, "8.50 TND", m.String())

	bare, err := ParseMoney("12.5")
	require.NoError(t, err)
	assert.Equal(t, "12.50 TND", bare.String())

	_, err = ParseMoney("")
	assert.Error(t, err)

	_, err = ParseMoney("abc TND")
	assert.Error(t, err)
}

func TestMoneyArithmetic(t *testing.T) {
	a := MoneyFromFloat(8.5)
	b := MoneyFromFloat(4.25)

	assert.Equal(t, "12.75 TND", a.Add(b).String())
	assert.Equal(t, "4.25 TND", a.Sub(b).String())
	assert.Equal(t, "25.50 TND", a.MulInt(3).String())
	assert.True(t, ZeroMoney().IsZero())
	assert.True(t, a.Sub(a).IsZero())
	assert.True(t, b.Sub(a).IsNegative())
}

func TestMoneyPercent(t *testing.T) {
	total := MoneyFromFloat(20)
	assert.Equal(t, "3.00 TND", total.Percent(15).String())
	assert.Equal(t, "20.00 TND", total.Percent(100).String())
	assert.Equal(t, "0.00 TND", total.Percent(0).String())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	original := MoneyFromFloat(8.5)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"8.50 TND"`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded))
}
