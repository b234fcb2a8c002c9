package epidemic

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNeighborhoodRisk_TwoSymptomaticNeighbors(t *testing.T) {
	self := &Agent{Status: StatusSusceptible}
	infected := []*Agent{
		{Status: StatusInfectedWithSymptoms},
		{Status: StatusInfectedWithSymptoms},
	}
	if got := NeighborhoodRisk(1, self, infected); !approx(got, 1.155) {
		t.Fatalf("expected raw risk 1.155, got %f", got)
	}
	if got := ContaminationProbability(1, self, infected); got != 1 {
		t.Fatalf("expected clamped probability 1, got %f", got)
	}
}

func TestNeighborhoodRisk_MasksAndCrowding(t *testing.T) {
	self := &Agent{Status: StatusSusceptible, Traits: Traits{HasMask: true}}
	infected := []*Agent{
		{Status: StatusInfectedWithSymptoms, Traits: Traits{HasMask: true}},
		{Status: StatusInfectedWithoutSymptoms},
		{Status: StatusInfectedWithoutSymptoms},
	}
	// mean(0.5*1.1*0.3, 0.45, 0.45) * 1.10 * 0.3
	want := (0.165 + 0.45 + 0.45) / 3 * 1.10 * 0.3
	if got := NeighborhoodRisk(0.5, self, infected); !approx(got, want) {
		t.Fatalf("expected %f, got %f", want, got)
	}
	if got := NeighborhoodRisk(0.5, self, nil); got != 0 {
		t.Fatalf("expected zero risk without infected neighbors, got %f", got)
	}
}

func TestContaminationProbability_StaysInUnitInterval(t *testing.T) {
	self := &Agent{Status: StatusSusceptible}
	for _, mean := range []float64{0, 0.1, 0.5, 0.9, 1} {
		for k := 1; k <= 8; k++ {
			infected := make([]*Agent, k)
			for i := range infected {
				infected[i] = &Agent{Status: StatusInfectedWithSymptoms}
			}
			p := ContaminationProbability(mean, self, infected)
			if p < 0 || p > 1 {
				t.Fatalf("mean=%f k=%d: probability %f out of range", mean, k, p)
			}
		}
	}
}

func TestSymptomaticProbability(t *testing.T) {
	cases := []struct {
		name   string
		traits Traits
		want   float64
	}{
		{name: "young", traits: Traits{Age: 30}, want: 0.5},
		{name: "exactly senior age", traits: Traits{Age: 65}, want: 0.5},
		{name: "senior", traits: Traits{Age: 70}, want: 0.6},
		{name: "elder", traits: Traits{Age: 75}, want: 0.7},
		{name: "elder at risk", traits: Traits{Age: 90, AtRisk: true}, want: 0.84},
		{name: "young at risk", traits: Traits{Age: 20, AtRisk: true}, want: 0.6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SymptomaticProbability(tc.traits); !approx(got, tc.want) {
				t.Fatalf("expected %f, got %f", tc.want, got)
			}
		})
	}
}

func TestRecoveryProbability(t *testing.T) {
	if got := RecoveryProbability(0.9, Traits{Age: 40}); !approx(got, 0.9) {
		t.Fatalf("expected 0.9, got %f", got)
	}
	if got := RecoveryProbability(0.9, Traits{Age: 70, AtRisk: true}); !approx(got, 0.9*0.8*0.8) {
		t.Fatalf("expected senior at-risk penalty, got %f", got)
	}
	if got := RecoveryProbability(0.9, Traits{Age: 80}); !approx(got, 0.63) {
		t.Fatalf("expected elder penalty, got %f", got)
	}
}

func TestExposureSourcePriority(t *testing.T) {
	maskedSym := &Agent{ID: 1, Status: StatusInfectedWithSymptoms, Traits: Traits{HasMask: true}}
	unmaskedAsym := &Agent{ID: 2, Status: StatusInfectedWithoutSymptoms}
	unmaskedSym := &Agent{ID: 3, Status: StatusInfectedWithSymptoms}
	maskedAsym := &Agent{ID: 4, Status: StatusInfectedWithoutSymptoms, Traits: Traits{HasMask: true}}
	recovered := &Agent{ID: 5, Status: StatusRecovered}

	exp := classify([]*Agent{maskedSym, recovered, unmaskedAsym, maskedAsym, unmaskedSym})
	if len(exp.infected) != 4 {
		t.Fatalf("expected 4 infected neighbors, got %d", len(exp.infected))
	}
	if src := exp.source(); src != unmaskedSym {
		t.Fatalf("expected unmasked symptomatic source, got %+v", src)
	}
	exp = classify([]*Agent{maskedAsym, maskedSym, unmaskedAsym})
	if src := exp.source(); src != unmaskedAsym {
		t.Fatalf("expected unmasked asymptomatic source, got %+v", src)
	}
	exp = classify([]*Agent{maskedAsym, maskedSym})
	if src := exp.source(); src != maskedSym {
		t.Fatalf("expected masked symptomatic source, got %+v", src)
	}
	exp = classify([]*Agent{recovered})
	if src := exp.source(); src != nil {
		t.Fatalf("expected no source, got %+v", src)
	}
}
