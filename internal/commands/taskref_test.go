package commands

import (
	"testing"
)

func TestParseTaskID_Numeric(t *testing.T) {
	id, err := ParseTaskID([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 5 {
		t.Errorf("expected id 5, got %d", id)
	}
}

func TestParseTaskID_HashPrefix(t *testing.T) {
	id, err := ParseTaskID([]string{"#42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}
}

func TestParseTaskID_Required(t *testing.T) {
	_, err := ParseTaskID(nil)
	if err != ErrTaskIDRequired {
		t.Errorf("expected ErrTaskIDRequired, got %v", err)
	}
}

func TestParseTaskID_Invalid(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"abc"}, "invalid task id: abc"},
		{[]string{"a1"}, "invalid task id: a1"},
		{[]string{"#"}, "invalid task id: #"},
		{[]string{"0"}, "invalid task id: 0"},
		{[]string{"1.5"}, "invalid task id: 1.5"},
		{[]string{"99999999999999999999"}, "invalid task id: 99999999999999999999"},
		{[]string{"3", "4"}, "unexpected argument: 4"},
	}

	for _, tt := range tests {
		_, err := ParseTaskID(tt.args)
		if err == nil {
			t.Errorf("ParseTaskID(%v): expected error", tt.args)
			continue
		}
		if err.Error() != tt.expected {
			t.Errorf("ParseTaskID(%v): expected %q, got %q", tt.args, tt.expected, err.Error())
		}
	}
}

func TestParseTaskID_NonASCIIDigits(t *testing.T) {
	if _, err := ParseTaskID([]string{"٣"}); err == nil {
		t.Error("expected error for non-ASCII digits")
	}
}

func TestParseArticleID(t *testing.T) {
	id, err := ParseArticleID([]string{"#7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Errorf("expected id 7, got %d", id)
	}

	if _, err := ParseArticleID(nil); err != ErrArticleIDRequired {
		t.Errorf("expected ErrArticleIDRequired, got %v", err)
	}
	if _, err := ParseArticleID([]string{"x"}); err == nil || err.Error() != "invalid article id: x" {
		t.Errorf("unexpected error: %v", err)
	}
}
