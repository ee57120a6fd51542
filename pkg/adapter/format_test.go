package adapter

import (
	"math"
	"testing"
)

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{4500000, "$4,500,000.00"},
		{0, "$0.00"},
		{999.999, "$1,000.00"},
		{1234.5, "$1,234.50"},
		{12.345, "$12.35"},
		{-1234.5, "-$1,234.50"},
		{math.Copysign(0, -1), "-$0.00"},
		{-0.001, "-$0.00"},
		{-0.004, "-$0.00"},
		{-0.005, "-$0.01"},
		{0.004, "$0.00"},
		{7, "$7.00"},
		{123456789012345678, "$123,456,789,012,345,680.00"},
		{math.NaN(), "$NaN"},
		{math.Inf(1), "$∞"},
		{math.Inf(-1), "-$∞"},
	}
	for _, tc := range cases {
		if got := FormatUSD(tc.in); got != tc.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
