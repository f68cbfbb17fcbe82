package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	germany := Locale{Country: "DE", Code: "DE"}
	us := Locale{Country: "us", Code: "US"}

	tests := []struct {
		name   string
		match  any
		locale Locale
		want   any
	}{
		{
			name:   "euro in germany uses comma decimal",
			match:  map[string]any{"CurrencyCode": "EUR", "Amount": "1050"},
			locale: germany,
			want:   "€10,50",
		},
		{
			name:   "euro elsewhere uses period decimal",
			match:  map[string]any{"CurrencyCode": "EUR", "Amount": "1050"},
			locale: us,
			want:   "€10.50",
		},
		{
			name:   "thousands separator default",
			match:  map[string]any{"CurrencyCode": "USD", "Amount": "123456"},
			locale: us,
			want:   "$1,234.56",
		},
		{
			name:   "thousands separator germany",
			match:  map[string]any{"CurrencyCode": "EUR", "Amount": "123456"},
			locale: germany,
			want:   "€1.234,56",
		},
		{
			name:   "no locale",
			match:  map[string]any{"CurrencyCode": "GBP", "Amount": "999"},
			locale: Locale{},
			want:   "£9.99",
		},
		{
			name:   "single element arrays",
			match:  map[string]any{"CurrencyCode": []any{"USD"}, "Amount": []any{"130"}},
			locale: us,
			want:   "$1.30",
		},
		{
			name:   "numeric amount",
			match:  map[string]any{"CurrencyCode": "USD", "Amount": float64(250)},
			locale: us,
			want:   "$2.50",
		},
		{
			name:   "unknown currency falls back to code",
			match:  map[string]any{"CurrencyCode": "XYZ1", "Amount": "100"},
			locale: us,
			want:   "XYZ11.00",
		},
		{
			name:   "missing currency code",
			match:  map[string]any{"Amount": "1050"},
			locale: us,
			want:   nil,
		},
		{
			name:   "missing amount",
			match:  map[string]any{"CurrencyCode": "EUR"},
			locale: germany,
			want:   nil,
		},
		{
			name:   "non numeric amount",
			match:  map[string]any{"CurrencyCode": "EUR", "Amount": "abc"},
			locale: germany,
			want:   nil,
		},
		{
			name:   "nil match",
			match:  nil,
			locale: us,
			want:   nil,
		},
		{
			name:   "scalar match",
			match:  "10.50",
			locale: us,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.match, tt.locale))
		})
	}
}

func TestFormatToNumber(t *testing.T) {
	tests := []struct {
		name  string
		match any
		want  any
	}{
		{name: "string amount", match: map[string]any{"Amount": "1050"}, want: 1050},
		{name: "fraction truncated", match: map[string]any{"Amount": "1050.9"}, want: 1050},
		{name: "array amount", match: map[string]any{"Amount": []any{"42"}}, want: 42},
		{name: "numeric amount", match: map[string]any{"Amount": float64(7)}, want: 7},
		{name: "absent amount", match: map[string]any{"CurrencyCode": "EUR"}, want: nil},
		{name: "unparseable amount", match: map[string]any{"Amount": "n/a"}, want: nil},
		{name: "nil match", match: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatToNumber(tt.match, Locale{}))
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "€", currencySymbol("EUR"))
	assert.Equal(t, "€", currencySymbol("eur"))
	assert.Equal(t, "$", currencySymbol("USD"))
	assert.Equal(t, "¥", currencySymbol("JPY"))
	assert.Equal(t, "NOPE1", currencySymbol("NOPE1"))
}
