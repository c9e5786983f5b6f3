package parser

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "thousands and decimal separators",
			input:    "1.234,56",
			expected: "1234.56",
		},
		{
			name:     "currency marker",
			input:    "R$ 25,90",
			expected: "25.90",
		},
		{
			name:     "currency marker with thousands",
			input:    "R$ 1.234,56",
			expected: "1234.56",
		},
		{
			name:     "non-breaking space after marker",
			input:    "R$\u00a01,50",
			expected: "1.50",
		},
		{
			name:     "cents only",
			input:    "0,99",
			expected: "0.99",
		},
		{
			name:     "integer without separators",
			input:    "1234",
			expected: "1234",
		},
		{
			name:     "surrounding whitespace",
			input:    "  R$ 10,00  ",
			expected: "10.00",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "marker only",
			input:   "R$",
			wantErr: true,
		},
		{
			name:    "non-numeric",
			input:   "abc",
			wantErr: true,
		},
		{
			name:    "multiple decimal points",
			input:   "1,2,3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMoney(%q) = %s, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) unexpected error: %v", tt.input, err)
			}
			want := decimal.RequireFromString(tt.expected)
			if !got.Equal(want) {
				t.Fatalf("ParseMoney(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "thousands grouping",
			input:    "1234.5",
			expected: "R$ 1.234,50",
		},
		{
			name:     "millions",
			input:    "1000000",
			expected: "R$ 1.000.000,00",
		},
		{
			name:     "small value",
			input:    "0.5",
			expected: "R$ 0,50",
		},
		{
			name:     "no grouping needed",
			input:    "25.9",
			expected: "R$ 25,90",
		},
		{
			name:     "negative value",
			input:    "-3.5",
			expected: "R$ -3,50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBRL(decimal.RequireFromString(tt.input))
			if got != tt.expected {
				t.Fatalf("FormatBRL(%s) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatBRLNull(t *testing.T) {
	missing := decimal.NullDecimal{}
	if got := FormatBRLNull(missing); got != "-" {
		t.Fatalf("FormatBRLNull(missing) = %q, want -", got)
	}

	present := decimal.NullDecimal{Decimal: decimal.RequireFromString("1234.5"), Valid: true}
	if got := FormatBRLNull(present); got != "R$ 1.234,50" {
		t.Fatalf("FormatBRLNull(1234.5) = %q, want R$ 1.234,50", got)
	}
}

func TestParseMoneyRoundTripsDisplayFormat(t *testing.T) {
	for _, raw := range []string{"R$ 1.234,50", "R$ 0,99", "R$ 25,90"} {
		value, err := ParseMoney(raw)
		if err != nil {
			t.Fatalf("ParseMoney(%q): %v", raw, err)
		}
		if got := FormatBRL(value); got != raw {
			t.Fatalf("FormatBRL(ParseMoney(%q)) = %q", raw, got)
		}
	}
}
