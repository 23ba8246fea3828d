package expense

import "testing"

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{name: "integral keeps trailing zero", value: 27, want: "27.0"},
		{name: "zero", value: 0, want: "0.0"},
		{name: "fraction untouched", value: 10.5, want: "10.5"},
		{name: "long fraction", value: 8.333333333333334, want: "8.333333333333334"},
		{name: "negative integral", value: -3, want: "-3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDecimal(tt.value); got != tt.want {
				t.Errorf("FormatDecimal(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
