package epidemic

// exposure groups the infected neighbors of a susceptible agent. Attribution
// walks the buckets in declaration order.
type exposure struct {
	unmaskedSymptomatic  []*Agent
	unmaskedAsymptomatic []*Agent
	maskedSymptomatic    []*Agent
	maskedAsymptomatic   []*Agent
	infected             []*Agent
}

func classify(neighbors []*Agent) exposure {
	var e exposure
	for _, n := range neighbors {
		switch n.Status {
		case StatusInfectedWithSymptoms:
			if n.HasMask {
				e.maskedSymptomatic = append(e.maskedSymptomatic, n)
			} else {
				e.unmaskedSymptomatic = append(e.unmaskedSymptomatic, n)
			}
		case StatusInfectedWithoutSymptoms:
			if n.HasMask {
				e.maskedAsymptomatic = append(e.maskedAsymptomatic, n)
			} else {
				e.unmaskedAsymptomatic = append(e.unmaskedAsymptomatic, n)
			}
		case StatusSusceptible, StatusRecovered, StatusDeceased:
			continue
		}
		e.infected = append(e.infected, n)
	}
	return e
}

// source is the neighbor credited with an infection.
func (e exposure) source() *Agent {
	for _, bucket := range [][]*Agent{
		e.unmaskedSymptomatic,
		e.unmaskedAsymptomatic,
		e.maskedSymptomatic,
		e.maskedAsymptomatic,
	} {
		if len(bucket) > 0 {
			return bucket[0]
		}
	}
	return nil
}

// SheddingProbability is the base probability that a single infected agent
// passes the disease to a neighbor.
func SheddingProbability(meanInfectionProb float64, a *Agent) float64 {
	var p float64
	switch a.Status {
	case StatusInfectedWithSymptoms:
		p = meanInfectionProb * SymptomaticFactor
	case StatusInfectedWithoutSymptoms:
		p = meanInfectionProb * AsymptomaticFactor
	case StatusSusceptible, StatusRecovered, StatusDeceased:
		return 0
	}
	if a.HasMask {
		p *= MaskFactor
	}
	return p
}

// NeighborhoodRisk is the unclamped infection probability for self given its
// infected neighbors.
func NeighborhoodRisk(meanInfectionProb float64, self *Agent, infected []*Agent) float64 {
	k := len(infected)
	if k == 0 {
		return 0
	}
	sum := 0.0
	for _, n := range infected {
		sum += SheddingProbability(meanInfectionProb, n)
	}
	p := sum / float64(k)
	p *= 1 + CrowdingFactor*float64(k-1)
	if self.HasMask {
		p *= MaskFactor
	}
	return p
}

func ContaminationProbability(meanInfectionProb float64, self *Agent, infected []*Agent) float64 {
	return clamp01(NeighborhoodRisk(meanInfectionProb, self, infected))
}

func SymptomaticProbability(t Traits) float64 {
	p := BaseSymptomaticProb
	if t.Age > SeniorAge {
		if t.Age < ElderAge {
			p *= SeniorSymptomaticBoost
		} else {
			p *= ElderSymptomaticBoost
		}
	}
	if t.AtRisk {
		p *= AtRiskSymptomaticBoost
	}
	if p > 1 {
		p = 1
	}
	return p
}

func RecoveryProbability(meanRecoveryProb float64, t Traits) float64 {
	p := meanRecoveryProb
	if t.Age > SeniorAge {
		if t.Age < ElderAge {
			p *= SeniorRecoveryPenalty
		} else {
			p *= ElderRecoveryPenalty
		}
	}
	if t.AtRisk {
		p *= AtRiskRecoveryPenalty
	}
	return p
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
