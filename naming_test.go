package extract

import (
	"errors"
	"testing"
	"time"

	nt "extract/entity"
)

func TestDeriveViewName(t *testing.T) {

	tests := map[string]string{
		"My Config V2":        "my_config_v2",
		"my_config_v2":        "my_config_v2",
		"Bangalore_V_2025010": "bangalore_v_2025010",
		"Two  Spaces":         "two__spaces",
	}

	for in, expected := range tests {
		if got := DeriveViewName(in); got != expected {
			t.Errorf("expected '%s' for '%s', got '%s'", expected, in, got)
		}
		if DeriveViewName(DeriveViewName(in)) != DeriveViewName(in) {
			t.Errorf("expected derivation of '%s' to be stable", in)
		}
	}
}

func TestConfigName(t *testing.T) {

	now := time.Date(2024, 12, 31, 23, 59, 58, 0, time.UTC)

	tests := []struct {
		name     string
		naming   Naming
		expected string
	}{
		{"new wins", Naming{New: "Fresh", Selected: "Old"}, "Fresh"},
		{"new trimmed", Naming{New: "  Fresh "}, "Fresh"},
		{"selected versioned", Naming{Selected: "Old"}, "Old_V_20241231235958"},
		{"blank new falls back", Naming{New: " ", Selected: "Old"}, "Old_V_20241231235958"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ConfigName(tc.naming, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected '%s', got '%s'", tc.expected, got)
			}
		})
	}

	_, err := ConfigName(Naming{}, now)
	var ve *nt.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected validation error, got %v", err)
	}
}
