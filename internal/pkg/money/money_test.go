package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   Money
	}{
		{"whole dollars", 12.0, 1200},
		{"cents", 12.99, 1299},
		{"half cent rounds away from zero", 0.005, 1},
		{"negative half cent rounds away from zero", -0.005, -1},
		{"binary float artifact", 23.40, 2340},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromFloat(tt.amount))
		})
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		unit     Money
		quantity int
		discount float64
		want     Money
	}{
		{"no discount", 1299, 2, 0, 2598},
		{"ten percent off", 1000, 1, 10, 900},
		{"discount needing rounding", 999, 3, 15, 2547}, // 29.97 * 0.85 = 25.4745
		{"full discount", 1299, 4, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineTotal(tt.unit, tt.quantity, tt.discount))
		})
	}
}

func TestPercentOf(t *testing.T) {
	// 13% HST on $23.40 is $3.042 which rounds to $3.04
	assert.Equal(t, Money(304), PercentOf(2340, 13))
	// Half cent rounds away from zero: 13% of $0.50 is $0.065
	assert.Equal(t, Money(7), PercentOf(50, 13))
}

func TestFloat64(t *testing.T) {
	assert.Equal(t, 12.99, Money(1299).Float64())
	assert.Equal(t, -4.2, Money(-420).Float64())
	assert.Equal(t, 0.0, Money(0).Float64())
}

func TestString(t *testing.T) {
	assert.Equal(t, "12.99", Money(1299).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-4.20", Money(-420).String())
	assert.Equal(t, "0.00", Money(0).String())
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Money(940))
	require.NoError(t, err)
	assert.Equal(t, "9.40", string(data))
}

func TestUnmarshalJSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte("23.4"), &m))
	assert.Equal(t, Money(2340), m)

	require.NoError(t, json.Unmarshal([]byte(`"12.99"`), &m))
	assert.Equal(t, Money(1299), m)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"12.99", 1299, false},
		{"12", 1200, false},
		{"12.9", 1290, false},
		{"12.995", 1300, false},
		{"-3.50", -350, false},
		{".50", 50, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// Serialized values survive a round trip without drift
	for _, cents := range []Money{0, 1, 99, 100, 1299, 2340, 123456789} {
		parsed, err := Parse(cents.String())
		require.NoError(t, err)
		assert.Equal(t, cents, parsed)
	}
}
