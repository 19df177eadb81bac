package validation

import "testing"

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trims whitespace", in: "  run 3 times a week  ", want: "run 3 times a week"},
		{name: "strips control characters", in: "run\x00 3\x1b times", want: "run 3 times"},
		{name: "keeps newlines and tabs", in: "run\n\t3 times", want: "run\n\t3 times"},
		{name: "empty after sanitization", in: " \x00 ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.in); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnumValidators(t *testing.T) {
	t.Parallel()

	if err := ValidateFrequency("weekly"); err != nil {
		t.Errorf("weekly should be a valid frequency: %v", err)
	}
	if err := ValidateFrequency("fortnightly"); err == nil {
		t.Error("fortnightly should be rejected")
	}
	if err := ValidateReminderMode("in_app"); err != nil {
		t.Errorf("in_app should be a valid reminder mode: %v", err)
	}
	if err := ValidateReminderMode("email"); err == nil {
		t.Error("email should be rejected")
	}
	if err := ValidateLoggingStyle("set_value"); err != nil {
		t.Errorf("set_value should be a valid logging style: %v", err)
	}
	if err := ValidateLoggingStyle("cumulative"); err == nil {
		t.Error("cumulative should be rejected")
	}
	if err := ValidatePromptFrequency("once_per_day"); err != nil {
		t.Errorf("once_per_day should be a valid prompt frequency: %v", err)
	}
	if err := ValidatePromptFrequency("hourly"); err == nil {
		t.Error("hourly should be rejected")
	}
	if err := ValidateWeekStart("monday"); err != nil {
		t.Errorf("monday should be a valid week start: %v", err)
	}
	if err := ValidateWeekStart("saturday"); err == nil {
		t.Error("saturday should be rejected")
	}
	if err := ValidateDayResetsAt(4); err != nil {
		t.Errorf("4 should be a valid reset hour: %v", err)
	}
	if err := ValidateDayResetsAt(24); err == nil {
		t.Error("24 should be rejected")
	}
}
