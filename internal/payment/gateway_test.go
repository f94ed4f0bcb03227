package payment

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseIntentStatus_KnownStatuses(t *testing.T) {
	known := []string{
		"requires_payment_method",
		"requires_confirmation",
		"requires_action",
		"processing",
		"requires_capture",
		"canceled",
		"succeeded",
	}

	for _, s := range known {
		status, err := ParseIntentStatus(s)
		if err != nil {
			t.Errorf("ParseIntentStatus(%q) failed: %v", s, err)
		}
		if string(status) != s {
			t.Errorf("ParseIntentStatus(%q) = %q", s, status)
		}
	}
}

func TestParseIntentStatus_UnknownFailsLoudly(t *testing.T) {
	for _, s := range []string{"", "SUCCEEDED", "succeded", "done", "pending"} {
		_, err := ParseIntentStatus(s)
		if !errors.Is(err, ErrUnknownIntentStatus) {
			t.Errorf("ParseIntentStatus(%q) = %v, want ErrUnknownIntentStatus", s, err)
		}
	}
}

func TestProperty_RandomStringsAreNotSilentlyAccepted(t *testing.T) {
	known := map[string]bool{
		"requires_payment_method": true,
		"requires_confirmation":   true,
		"requires_action":         true,
		"processing":              true,
		"requires_capture":        true,
		"canceled":                true,
		"succeeded":               true,
	}

	properties := gopter.NewProperties(nil)

	properties.Property("any string outside the known set is rejected", prop.ForAll(
		func(s string) bool {
			status, err := ParseIntentStatus(s)
			if known[s] {
				return err == nil && string(status) == s
			}
			return errors.Is(err, ErrUnknownIntentStatus)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
