package fusion

import (
	"fmt"

	"github.com/DhanushPillay/VisioNova/pkg/detector"
)

// ClassifyAgreement buckets detector consensus by the ratio of successful
// detectors flagging AI. Buckets are evaluated in order: ratio ≥ 0.8 strong
// AI consensus, ≥ 0.6 majority AI, ≤ 0.2 strong human consensus, ≤ 0.4
// majority human, anything else a split decision. Zero successful detectors
// is NO_DATA. A score spread above 40 points appends a high-spread
// qualifier regardless of bucket.
func ClassifyAgreement(results []detector.Result) (AgreementLevel, string) {
	var total, flagging int
	var minScore, maxScore float64
	for _, r := range results {
		if !r.Success {
			continue
		}
		if total == 0 {
			minScore, maxScore = r.CalibratedScore, r.CalibratedScore
		} else {
			if r.CalibratedScore < minScore {
				minScore = r.CalibratedScore
			}
			if r.CalibratedScore > maxScore {
				maxScore = r.CalibratedScore
			}
		}
		total++
		if r.CalibratedScore > 50 {
			flagging++
		}
	}

	if total == 0 {
		return AgreementNoData, "No models produced results"
	}

	ratio := float64(flagging) / float64(total)

	var level AgreementLevel
	var detail string
	switch {
	case ratio >= 0.8:
		level = AgreementStrongAI
		detail = fmt.Sprintf("%d/%d models agree this is AI-generated", flagging, total)
	case ratio >= 0.6:
		level = AgreementMajorityAI
		detail = fmt.Sprintf("%d/%d models flagged as AI — majority consensus", flagging, total)
	case ratio <= 0.2:
		level = AgreementStrongHuman
		detail = fmt.Sprintf("%d/%d models agree this is human-created", total-flagging, total)
	case ratio <= 0.4:
		level = AgreementMajorityHuman
		detail = fmt.Sprintf("%d/%d models lean toward human origin", total-flagging, total)
	default:
		level = AgreementSplit
		detail = fmt.Sprintf("Models are divided (%d AI vs %d Human) — mixed signals", flagging, total-flagging)
	}

	if total >= 2 {
		if spread := maxScore - minScore; spread > 40 {
			detail += fmt.Sprintf(". High spread (%.0f%%) suggests different models see different things.", spread)
		}
	}

	return level, detail
}
