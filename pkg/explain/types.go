package explain

import "github.com/DhanushPillay/VisioNova/pkg/fusion"

// ModelFinding is one row of the per-detector breakdown shown to users.
type ModelFinding struct {
	Name           string  `json:"name"`
	Key            string  `json:"key"`
	Score          float64 `json:"score"`
	Accuracy       string  `json:"accuracy"`
	Specialty      string  `json:"specialty"`
	Detects        string  `json:"detects"`
	Interpretation string  `json:"interpretation"`
	FlaggedAsAI    bool    `json:"flagged_as_ai"`
}

// Reasoning is the plain-language justification for the verdict.
type Reasoning struct {
	// Bullets are up to three reasons from detectors agreeing with the
	// verdict, plus at most one forensic bullet.
	Bullets []string `json:"bullets"`

	// Caveat is set only when the result deserves a warning: a split
	// decision, or a majority verdict with dissenting detectors.
	Caveat string `json:"caveat,omitempty"`
}

// Explanation is the full structured narrative for one verdict. It is
// derived purely from the ensemble verdict and forensic signals — no
// hidden state, so the same inputs always yield the same explanation.
type Explanation struct {
	Summary            string               `json:"summary"`
	Reasoning          Reasoning            `json:"reasoning"`
	ModelBreakdown     []ModelFinding       `json:"model_breakdown"`
	Anomalies          []string             `json:"anomalies"`
	AgreementLevel     fusion.AgreementLevel `json:"agreement_level"`
	AgreementDetail    string               `json:"agreement_detail"`
	VerdictDescription string               `json:"verdict_description"`

	// Method names the explanation technique, for display.
	Method string `json:"method"`
}

// Capabilities records which optional explanation features are available.
// Resolved once at startup; callers branch on the flag, never on probing
// a dependency per call.
type Capabilities struct {
	// Heatmap is true when attention-heatmap generation is available.
	// The pure-Go build has no Grad-CAM path, so this is false unless an
	// external heatmap provider is wired in.
	Heatmap bool
}
