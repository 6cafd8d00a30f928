package report

import "testing"

func TestResolveStatus_Bounds(t *testing.T) {
	ref := ReferenceRange{Min: Float(4.0), Max: Float(11.0)}

	cases := []struct {
		value string
		want  Status
	}{
		{"3.2", StatusLow},
		{"4.0", StatusNormal},
		{"7.5", StatusNormal},
		{"11.0", StatusNormal},
		{"12.5", StatusHigh},
	}
	for _, tc := range cases {
		if got := ResolveStatus(tc.value, ref, 0); got != tc.want {
			t.Errorf("ResolveStatus(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestResolveStatus_CriticalThresholds(t *testing.T) {
	ref := ReferenceRange{Min: Float(10.0), Max: Float(20.0)}

	// 25% beyond the range: below 7.5 or above 25 is critical.
	cases := []struct {
		value string
		want  Status
	}{
		{"9.0", StatusLow},
		{"7.0", StatusCriticalLow},
		{"21.0", StatusHigh},
		{"26.0", StatusCriticalHigh},
		{"15.0", StatusNormal},
	}
	for _, tc := range cases {
		if got := ResolveStatus(tc.value, ref, 25); got != tc.want {
			t.Errorf("ResolveStatus(%q, pct=25) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestResolveStatus_Unparseable(t *testing.T) {
	ref := ReferenceRange{Min: Float(4.0), Max: Float(11.0)}
	for _, v := range []string{"N/A", "pending", "12..5"} {
		if got := ResolveStatus(v, ref, 0); got != StatusUnparseable {
			t.Errorf("ResolveStatus(%q) = %q, want unparseable", v, got)
		}
	}
	if got := ResolveStatus("", ref, 0); got != StatusNotAvailable {
		t.Errorf("ResolveStatus(empty) = %q, want not available", got)
	}
}

func TestResolveStatus_Categorical(t *testing.T) {
	cases := []struct {
		value string
		want  Status
	}{
		{"Negative", StatusNormal},
		{"trace", StatusBorderline},
		{"POSITIVE", StatusHigh},
		{"clear", StatusNormal},
	}
	for _, tc := range cases {
		if got := ResolveStatus(tc.value, ReferenceRange{}, 0); got != tc.want {
			t.Errorf("ResolveStatus(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestResolveStatus_OneSidedAndMissingRange(t *testing.T) {
	if got := ResolveStatus("5.0", ReferenceRange{}, 0); got != StatusNormal {
		t.Errorf("no range: got %q, want normal", got)
	}
	maxOnly := ReferenceRange{Max: Float(200)}
	if got := ResolveStatus("240", maxOnly, 0); got != StatusHigh {
		t.Errorf("max-only: got %q, want high", got)
	}
	if got := ResolveStatus("150", maxOnly, 0); got != StatusNormal {
		t.Errorf("max-only in range: got %q, want normal", got)
	}
}

func TestParseValue_Prefixes(t *testing.T) {
	v, err := ParseValue("<0.01")
	if err != nil {
		t.Fatalf("ParseValue(<0.01): %v", err)
	}
	if v != 0.01 {
		t.Errorf("ParseValue(<0.01) = %v", v)
	}
	if _, err := ParseValue("1,250"); err != nil {
		t.Errorf("ParseValue with separator: %v", err)
	}
}
