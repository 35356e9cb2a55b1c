package scorecard

// Evaluator turns one raw performance into a deterministic point value. The
// weighting is a pluggable strategy so rule changes never touch the engines.
type Evaluator interface {
	Score(perf PlayerPerformance) float64
}

// Rules is the default weighting for cricket performance fields.
type Rules struct {
	RunWeight        float64
	WicketWeight     float64
	CatchWeight      float64
	StumpingWeight   float64
	MaidenWeight     float64
	HalfCenturyBonus float64
	CenturyBonus     float64
}

func DefaultRules() Rules {
	return Rules{
		RunWeight:        1,
		WicketWeight:     25,
		CatchWeight:      8,
		StumpingWeight:   12,
		MaidenWeight:     12,
		HalfCenturyBonus: 8,
		CenturyBonus:     16,
	}
}

func (r Rules) Score(perf PlayerPerformance) float64 {
	points := float64(perf.Runs)*r.RunWeight +
		float64(perf.Wickets)*r.WicketWeight +
		float64(perf.Catches)*r.CatchWeight +
		float64(perf.Stumpings)*r.StumpingWeight +
		float64(perf.Maidens)*r.MaidenWeight

	switch {
	case perf.Runs >= 100:
		points += r.CenturyBonus
	case perf.Runs >= 50:
		points += r.HalfCenturyBonus
	}

	return points
}
