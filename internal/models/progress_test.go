package models

import (
	"reflect"
	"testing"
)

func TestApplyProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		progress []ProgressEntry
		entry    ProgressEntry
		replace  bool
		want     []ProgressEntry
	}{
		{
			name:     "appends a new date",
			progress: []ProgressEntry{{Date: "2024-01-01", Completed: 2}},
			entry:    ProgressEntry{Date: "2024-01-02", Completed: 1},
			want: []ProgressEntry{
				{Date: "2024-01-01", Completed: 2},
				{Date: "2024-01-02", Completed: 1},
			},
		},
		{
			name:     "sums into an existing date by default",
			progress: []ProgressEntry{{Date: "2024-01-01", Completed: 3}},
			entry:    ProgressEntry{Date: "2024-01-01", Completed: 2},
			want:     []ProgressEntry{{Date: "2024-01-01", Completed: 5}},
		},
		{
			name:     "replace overwrites an existing date",
			progress: []ProgressEntry{{Date: "2024-01-01", Completed: 3}},
			entry:    ProgressEntry{Date: "2024-01-01", Completed: 2},
			replace:  true,
			want:     []ProgressEntry{{Date: "2024-01-01", Completed: 2}},
		},
		{
			name:     "replace on a new date still appends",
			progress: nil,
			entry:    ProgressEntry{Date: "2024-01-01", Completed: 4},
			replace:  true,
			want:     []ProgressEntry{{Date: "2024-01-01", Completed: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ApplyProgress(tt.progress, tt.entry, tt.replace)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ApplyProgress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyProgressReplaceIsIdempotent(t *testing.T) {
	t.Parallel()

	entry := ProgressEntry{Date: "2024-01-01", Completed: 3}
	once := ApplyProgress(nil, entry, true)
	twice := ApplyProgress(once, entry, true)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("replace not idempotent: once=%v twice=%v", once, twice)
	}
}
