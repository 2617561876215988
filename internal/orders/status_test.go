package orders

import "testing"

func TestParseStatus(t *testing.T) {
	for _, s := range []string{
		"pending", "confirmed", "processing", "shipped",
		"delivered", "cancelled", "refunded",
	} {
		st, err := ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q): %v", s, err)
		}
		if st.String() != s {
			t.Errorf("round trip %q -> %q", s, st)
		}
	}

	if _, err := ParseStatus("on-hold"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Error("expected error for empty status")
	}
}

func TestStatus_Terminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusPending:    false,
		StatusConfirmed:  false,
		StatusProcessing: false,
		StatusShipped:    false,
		StatusDelivered:  true,
		StatusCancelled:  true,
		StatusRefunded:   true,
	}
	for st, want := range terminal {
		if got := st.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", st, got, want)
		}
	}
}
