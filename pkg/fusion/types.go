package fusion

import "github.com/DhanushPillay/VisioNova/pkg/detector"

// VerdictLabel is the categorical outcome of a fused analysis.
type VerdictLabel string

const (
	// VerdictAIGenerated means the fused probability exceeds 50.
	VerdictAIGenerated VerdictLabel = "AI-Generated"

	// VerdictAuthentic means the fused probability is 50 or below.
	// Exactly 50 resolves to Authentic: a deliberate tie-break so the
	// maximally uncertain midpoint never accuses an image of being AI.
	VerdictAuthentic VerdictLabel = "Authentic"

	// VerdictUncertain is the degenerate outcome when zero detectors succeeded.
	VerdictUncertain VerdictLabel = "UNCERTAIN"
)

// AgreementLevel summarizes how many detectors concur on a direction.
type AgreementLevel string

const (
	AgreementStrongAI      AgreementLevel = "STRONG_AI_CONSENSUS"
	AgreementMajorityAI    AgreementLevel = "MAJORITY_AI"
	AgreementStrongHuman   AgreementLevel = "STRONG_HUMAN_CONSENSUS"
	AgreementMajorityHuman AgreementLevel = "MAJORITY_HUMAN"
	AgreementSplit         AgreementLevel = "SPLIT_DECISION"
	AgreementNoData        AgreementLevel = "NO_DATA"
)

// EnsembleVerdict is the output of one fusion call. It is created once,
// never mutated, and owned by the request that produced it.
type EnsembleVerdict struct {
	// AIProbability is the fused probability in [0, 100].
	AIProbability float64

	// Verdict is the categorical label derived from AIProbability.
	Verdict VerdictLabel

	// Results holds every contributing detector result in invocation order,
	// including failed ones (which contributed nothing to the arithmetic).
	Results []detector.Result

	// Agreement classifies detector consensus over the successful results.
	Agreement AgreementLevel

	// AgreementDetail is the human-readable consensus summary.
	AgreementDetail string
}

// SuccessfulResults returns the results that may participate in arithmetic.
func (v *EnsembleVerdict) SuccessfulResults() []detector.Result {
	out := make([]detector.Result, 0, len(v.Results))
	for _, r := range v.Results {
		if r.Success {
			out = append(out, r)
		}
	}
	return out
}
