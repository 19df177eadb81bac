package models

import "testing"

func TestClampWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   [4]float64 // measurability, achievability, importance, combined
		want ResolutionWeight
	}{
		{
			name: "out of range scores are clamped",
			in:   [4]float64{15, -2, 7, 150},
			want: ResolutionWeight{Measurability: 10, Achievability: 1, Importance: 7, Combined: 100},
		},
		{
			name: "in range scores pass through",
			in:   [4]float64{5, 5, 5, 50},
			want: ResolutionWeight{Measurability: 5, Achievability: 5, Importance: 5, Combined: 50},
		},
		{
			name: "fractional scores round",
			in:   [4]float64{7.6, 3.4, 5.5, 62.3},
			want: ResolutionWeight{Measurability: 8, Achievability: 3, Importance: 6, Combined: 62},
		},
		{
			name: "combined may be zero",
			in:   [4]float64{1, 1, 1, 0},
			want: ResolutionWeight{Measurability: 1, Achievability: 1, Importance: 1, Combined: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ClampWeight(tt.in[0], tt.in[1], tt.in[2], tt.in[3])
			if got != tt.want {
				t.Errorf("ClampWeight(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNeutralWeight(t *testing.T) {
	t.Parallel()

	want := ResolutionWeight{Measurability: 5, Achievability: 5, Importance: 5, Combined: 50}
	if got := NeutralWeight(); got != want {
		t.Errorf("NeutralWeight() = %+v, want %+v", got, want)
	}
}
