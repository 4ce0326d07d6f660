package store

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericRoundTripKeepsPrecision(t *testing.T) {
	tests := []string{"0", "5.99", "25.173", "1234567.8901"}
	for _, s := range tests {
		d := decimal.RequireFromString(s)
		got := numericToDecimal(decimalToNumeric(d))
		if !got.Equal(d) {
			t.Errorf("%s: got %s", s, got)
		}
	}
}

func TestNumericToDecimal_Invalid(t *testing.T) {
	if got := numericToDecimal(pgtype.Numeric{}); !got.IsZero() {
		t.Errorf("invalid numeric: got %s, want 0", got)
	}
}

func TestTextOrNull(t *testing.T) {
	if textOrNull("").Valid {
		t.Error("empty string should be NULL")
	}
	if v := textOrNull("x"); !v.Valid || v.String != "x" {
		t.Errorf("got %+v", v)
	}
}
