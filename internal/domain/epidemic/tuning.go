package epidemic

const (
	MaskFactor         = 0.3
	SymptomaticFactor  = 1.1
	AsymptomaticFactor = 0.9
	CrowdingFactor     = 0.05

	BaseSymptomaticProb    = 0.5
	SeniorSymptomaticBoost = 1.2
	ElderSymptomaticBoost  = 1.4
	AtRiskSymptomaticBoost = 1.2

	SeniorRecoveryPenalty = 0.8
	ElderRecoveryPenalty  = 0.7
	AtRiskRecoveryPenalty = 0.8

	// Ages strictly above SeniorAge and below ElderAge are "senior"; ElderAge and
	// up are "elder".
	SeniorAge = 65
	ElderAge  = 75
	MaxAge    = 120

	SymptomaticInfectionTicks  = 14
	AsymptomaticInfectionTicks = 7
	DeceasedRetentionTicks     = 3

	MaxStrategies = 3
)
