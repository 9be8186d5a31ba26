package service

import "github.com/DhanushPillay/VisioNova/pkg/explain"

// VisualAnalysis is the evidence section of the response.
type VisualAnalysis struct {
	Assessment      string                 `json:"assessment"`
	Anomalies       []string               `json:"anomalies"`
	ModelBreakdown  []explain.ModelFinding `json:"model_breakdown"`
	AgreementLevel  string                 `json:"agreement_level"`
	AgreementDetail string                 `json:"agreement_detail"`
}

// CombinedVerdict is the verdict section of the response.
type CombinedVerdict struct {
	CombinedProbability float64 `json:"combined_probability"`
	Verdict             string  `json:"verdict"`
	VerdictDescription  string  `json:"verdict_description"`
	AnalysisAgreement   string  `json:"analysis_agreement"`
}

// Reasoning mirrors explain.Reasoning with an explicit nullable caveat.
type Reasoning struct {
	Bullets []string `json:"bullets"`
	Caveat  *string  `json:"caveat"`
}

// Response is the JSON-serializable analysis result returned to callers.
// The explanation fields are always populated, even in total-failure mode.
type Response struct {
	Success         bool            `json:"success"`
	RequestID       string          `json:"request_id"`
	AIProbability   float64         `json:"ai_probability"`
	Verdict         string          `json:"verdict"`
	VisualAnalysis  VisualAnalysis  `json:"visual_analysis"`
	Reasoning       Reasoning       `json:"reasoning"`
	CombinedVerdict CombinedVerdict `json:"combined_verdict"`
	Error           string          `json:"error,omitempty"`
}
