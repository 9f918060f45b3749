package style

import (
	"strings"
	"testing"

	nt "extract/entity"
)

func TestTruncate(t *testing.T) {

	if Truncate("short", 10) != "short" {
		t.Errorf("expected short text unchanged")
	}
	if Truncate("anything", 0) != "anything" {
		t.Errorf("expected no width to leave text unchanged")
	}

	got := Truncate("Bangalore", 4)
	if !strings.HasPrefix(got, "Ban") || !strings.Contains(got, "…") {
		t.Errorf("unexpected truncation: %q", got)
	}
}

func TestResult(t *testing.T) {

	result := nt.Result{
		Columns: []string{"CITY", "IS_BLR"},
		Rows: []nt.Row{
			{nt.NewValue("Bangalore"), nt.NewValue("YES")},
			{nt.NewValue("Pune"), nt.NewValue(nil)},
		},
	}

	out := Result(result, 20)
	for _, expected := range []string{"CITY", "IS_BLR", "Bangalore", "YES", "Pune", nullText} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected %q in rendered table:\n%s", expected, out)
		}
	}
}
