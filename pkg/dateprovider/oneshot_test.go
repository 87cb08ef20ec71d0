package dateprovider

import (
	"testing"
	"time"

	"github.com/vnykmshr/livetime/internal/testutil"
	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
)

func TestOneShot_MissingProvider(t *testing.T) {
	calls := map[string]func() error{
		"Format":           func() error { _, err := Format(nil, noon, "%H", ""); return err },
		"FromNow":          func() error { _, err := FromNow(nil, noon, false, ""); return err },
		"ToNow":            func() error { _, err := ToNow(nil, noon, false, ""); return err },
		"Add":              func() error { _, err := Add(nil, noon, time.Hour, "%H", ""); return err },
		"Subtract":         func() error { _, err := Subtract(nil, noon, time.Hour, "%H", ""); return err },
		"DurationHumanize": func() error { _, err := DurationHumanize(nil, time.Hour, false); return err },
		"Until":            func() error { _, err := Until(nil, noon, "%H", "", true); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			testutil.AssertErrorIs(t, call(), gferrors.ErrMissingProvider)
		})
	}
}

func TestOneShot_Relative(t *testing.T) {
	p, clk := newTestProvider(DefaultOptions())
	posted := noon
	clk.Advance(5 * time.Minute)

	tests := []struct {
		name string
		call func() (string, error)
		want string
	}{
		{"from now", func() (string, error) { return FromNow(p, posted, false, "") }, "5 minutes ago"},
		{"to now", func() (string, error) { return ToNow(p, posted, false, "") }, "5 minutes from now"},
		{"without suffix", func() (string, error) { return FromNow(p, posted, true, "Europe/Paris") }, "5 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call()
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}

func TestOneShot_RelativeCapabilities(t *testing.T) {
	p, _ := newTestProvider(Options{})

	if _, err := FromNow(p, noon, false, ""); !gferrors.IsCapabilityError(err) {
		t.Errorf("FromNow error = %v, want CapabilityError", err)
	}
	if _, err := DurationHumanize(p, time.Hour, false); !gferrors.IsCapabilityError(err) {
		t.Errorf("DurationHumanize error = %v, want CapabilityError", err)
	}
	if _, err := Format(p, noon, "%H", "UTC"); !gferrors.IsCapabilityError(err) {
		t.Errorf("Format error = %v, want CapabilityError", err)
	}
}

func TestOneShot_AddSubtract(t *testing.T) {
	p, _ := newTestProvider(DefaultOptions())

	got, err := Add(p, noon, 90*time.Minute, "%H:%M", "")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, "13:30")

	got, err = Subtract(p, noon, 24*time.Hour, "%Y-%m-%d", "")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, "2024-03-14")
}

func TestOneShot_DurationHumanize(t *testing.T) {
	p, _ := newTestProvider(DefaultOptions())

	got, err := DurationHumanize(p, 2*time.Hour, true)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, "2 hours")
}

func TestOneShot_Until(t *testing.T) {
	p, _ := newTestProvider(DefaultOptions())

	tests := []struct {
		name   string
		anchor time.Time
		format string
		clamp  bool
		want   string
	}{
		{"ahead", noon.Add(90 * time.Second), "%H:%M:%S", true, "00:01:30"},
		{"passed clamped", noon.Add(-time.Hour), "%H:%M:%S", true, "00:00:00"},
		// Unclamped, a past anchor lands before the epoch.
		{"passed unclamped", noon.Add(-time.Hour), "%Y %H:%M:%S", false, "1969 23:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Until(p, tt.anchor, tt.format, "", tt.clamp)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}
