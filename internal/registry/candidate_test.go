package registry

import "testing"

func TestHasSkill(t *testing.T) {
	t.Parallel()

	candidate := &Candidate{
		Name:   "Emily Chen",
		Skills: []string{"Portfolio Management", "Risk Analysis"},
	}

	tests := []struct {
		name   string
		skill  string
		expect bool
	}{
		{
			name:   "exact casing",
			skill:  "Portfolio Management",
			expect: true,
		},
		{
			name:   "different casing",
			skill:  "portfolio management",
			expect: true,
		},
		{
			name:   "missing skill",
			skill:  "Derivatives",
			expect: false,
		},
		{
			name:   "substring is not a match",
			skill:  "Portfolio",
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := candidate.HasSkill(tt.skill); got != tt.expect {
				t.Fatalf("HasSkill(%q) = %v, expected %v", tt.skill, got, tt.expect)
			}
		})
	}
}

func TestMeetsRequirements(t *testing.T) {
	t.Parallel()

	candidate := &Candidate{
		Name:            "Sofia Rodriguez",
		Skills:          []string{"Portfolio Management", "Risk Analysis"},
		YearsExperience: 12,
		Specializations: []string{"Fixed Income"},
	}

	tests := []struct {
		name   string
		skills []string
		minExp float64
		specs  []string
		expect bool
	}{
		{
			name:   "all requirements satisfied",
			skills: []string{"risk analysis"},
			minExp: 10,
			specs:  []string{"fixed income"},
			expect: true,
		},
		{
			name:   "no requirements at all",
			expect: true,
		},
		{
			name:   "missing skill",
			skills: []string{"Derivatives"},
			expect: false,
		},
		{
			name:   "experience too low",
			minExp: 15,
			expect: false,
		},
		{
			name:   "missing specialization",
			specs:  []string{"Equities"},
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := candidate.MeetsRequirements(tt.skills, tt.minExp, tt.specs); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}
