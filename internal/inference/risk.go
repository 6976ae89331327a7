package inference

// RiskLevel grades how favourable field conditions are for disease spread.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Display returns the level as shown to growers.
func (l RiskLevel) Display() string {
	switch l {
	case RiskHigh:
		return "Alto"
	case RiskMedium:
		return "Medio"
	default:
		return "Bajo"
	}
}

// Risk thresholds. Lower bounds are inclusive.
const (
	HighRiskThreshold   = 0.7
	MediumRiskThreshold = 0.4

	// riskEpsilon absorbs float error in sums such as 0.4+0.3.
	riskEpsilon = 1e-9
)

// riskFactor is a symptom that signals a spread-favouring environment.
type riskFactor struct {
	Key    string
	Weight float64
}

var riskFactors = []riskFactor{
	{Key: "hongos_visibles", Weight: 0.4},
	{Key: "olor_raro", Weight: 0.3},
	{Key: "corteza_rajada", Weight: 0.2},
	{Key: "frutos_podridos", Weight: 0.3},
	{Key: "muerte_planta", Weight: 0.5},
}

// Risk is the environmental risk estimate for a set of observations.
type Risk struct {
	Score   float64   `json:"score"` // 0.0–1.0
	Level   RiskLevel `json:"level"`
	Factors []string  `json:"factors"`
}

// AssessRisk adds up the weights of the observed risk factors, capped at 1.
func AssessRisk(obs Observations) Risk {
	var score float64
	factors := []string{}
	for _, f := range riskFactors {
		if obs[f.Key] {
			score += f.Weight
			factors = append(factors, f.Key)
		}
	}
	if score > 1 {
		score = 1
	}

	level := RiskLow
	switch {
	case score+riskEpsilon >= HighRiskThreshold:
		level = RiskHigh
	case score+riskEpsilon >= MediumRiskThreshold:
		level = RiskMedium
	}
	return Risk{Score: score, Level: level, Factors: factors}
}
