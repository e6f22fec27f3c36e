package clean

import (
	"testing"
	"time"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		upper bool
		want  any
	}{
		{"nil_in_nil_out", nil, false, nil},
		{"trims", "  iberia  ", false, "iberia"},
		{"uppercases", " ib ", true, "IB"},
		{"empty_after_trim", "   ", false, nil},
		{"nan_sentinel", "NaN", false, nil},
		{"none_sentinel", "None", true, nil},
		{"non_string", 42, false, nil},
		{"case_preserved_without_upper", "Costa Rica", false, "Costa Rica"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in, tt.upper); got != tt.want {
				t.Fatalf("Text(%v, %v) = %v, want %v", tt.in, tt.upper, got, tt.want)
			}
		})
	}
}

func TestGender(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{"m", GenderMale},
		{"M", GenderMale},
		{" F ", GenderFemale},
		{"f", GenderFemale},
		{"Other", "OTHER"},
		{"", nil},
		{nil, nil},
		{"nan", nil},
	}
	for _, tt := range tests {
		if got := Gender(tt.in); got != tt.want {
			t.Errorf("Gender(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{"1,234", 1.234},
		{"199.99", 199.99},
		{"250", 250.0},
		{"abc", nil},
		{"", nil},
		{nil, nil},
		{float64(88.5), 88.5},
	}
	for _, tt := range tests {
		if got := Price(tt.in); got != tt.want {
			t.Errorf("Price(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		def  any
		want any
	}{
		{"plain", "34", int64(0), int64(34)},
		{"missing_uses_default", nil, int64(0), int64(0)},
		{"missing_nil_default", "", nil, nil},
		{"float_string_rounds", "24.6", int64(0), int64(25)},
		{"float_value_rounds", 24.5, nil, int64(25)},
		{"garbage_uses_default", "n/a", int64(0), int64(0)},
		{"already_int64", int64(7), nil, int64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Int(tt.in, tt.def); got != tt.want {
				t.Fatalf("Int(%v, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
			}
		})
	}
}

func TestDateTime(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		dayFirst bool
		want     time.Time
		null     bool
	}{
		{
			name:     "day_first_slash",
			in:       "05/03/2024 10:00",
			dayFirst: true,
			want:     time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "month_first_slash",
			in:       "05/03/2024 10:00",
			dayFirst: false,
			want:     time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso_always_accepted",
			in:       "2024-03-05T10:00:00",
			dayFirst: true,
			want:     time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "date_only",
			in:       "5/3/2024",
			dayFirst: true,
			want:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{name: "unparseable", in: "soon", dayFirst: true, null: true},
		{name: "empty", in: "", dayFirst: true, null: true},
		{name: "nil", in: nil, dayFirst: true, null: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateTime(tt.in, tt.dayFirst)
			if tt.null {
				if got != nil {
					t.Fatalf("DateTime(%v) = %v, want nil", tt.in, got)
				}
				return
			}
			ts, ok := got.(time.Time)
			if !ok || !ts.Equal(tt.want) {
				t.Fatalf("DateTime(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
