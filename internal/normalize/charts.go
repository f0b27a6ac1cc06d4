package normalize

import "math"

// buildCharts derives the four fixed-shape dashboard chart payloads from
// normalized values. The authority-vs-visibility pair is built with the
// provided citation authority, which the pipeline rewrites once the trust
// score is known.
func buildCharts(scores Pillars, sentiment Sentiment, actionPlan []Action, citationAuthority int) Charts {
	authority := clampScore(citationAuthority, 0)

	score := clampScore(sentiment.Score, defaultSentimentScore)
	var sentimentValues []int
	switch sentiment.Label {
	case "Positive":
		sentimentValues = []int{score, maxInt(0, 100-score), 0}
	case "Negative":
		sentimentValues = []int{0, maxInt(0, 100-score), score}
	default:
		remainder := maxInt(0, 100-score)
		left := int(math.Round(float64(remainder) / 2.0))
		sentimentValues = []int{left, score, remainder - left}
	}

	counts := map[string]int{"High": 0, "Medium": 0, "Low": 0}
	for _, a := range actionPlan {
		key := titleCase(truncate(a.Priority, 20))
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}

	return Charts{
		PillarBar: Chart{
			Labels: []string{"Visibility", "Content", "Technical", "Visual"},
			Values: []int{scores.Visibility, scores.Content, scores.Technical, scores.Visual},
		},
		SentimentDonut: Chart{
			Labels: []string{"Positive", "Neutral", "Negative"},
			Values: sentimentValues,
		},
		PriorityStack: Chart{
			Labels: []string{"High", "Medium", "Low"},
			Values: []int{counts["High"], counts["Medium"], counts["Low"]},
		},
		AuthorityVsVisibility: Chart{
			Labels: []string{"Citation Authority", "Visibility"},
			Values: []int{authority, scores.Visibility},
		},
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
