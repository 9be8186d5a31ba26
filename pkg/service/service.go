// Package service orchestrates a complete image analysis: cascade
// execution, forensic inspection, fusion and explanation, assembled into
// the response shape consumed by API layers.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DhanushPillay/VisioNova/pkg/cascade"
	"github.com/DhanushPillay/VisioNova/pkg/detector"
	"github.com/DhanushPillay/VisioNova/pkg/explain"
	"github.com/DhanushPillay/VisioNova/pkg/fusion"
	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
	"github.com/DhanushPillay/VisioNova/pkg/observability/metrics"
)

// Analyzer runs the full detection pipeline for one image per call.
// All per-request state lives on the stack of Analyze; the struct itself
// only holds read-only collaborators, so one Analyzer serves all requests.
type Analyzer struct {
	controller *cascade.Controller
	explainer  *explain.Explainer
	forensics  []detector.ForensicAnalyzer
	adapter    *detector.Adapter
}

// NewAnalyzer wires the pipeline together. Forensic analyzers run under the
// given per-invocation timeout, the same bound detectors get.
func NewAnalyzer(
	controller *cascade.Controller,
	explainer *explain.Explainer,
	forensics []detector.ForensicAnalyzer,
	timeout time.Duration,
) *Analyzer {
	return &Analyzer{
		controller: controller,
		explainer:  explainer,
		forensics:  forensics,
		adapter:    detector.NewAdapter(timeout),
	}
}

// Analyze classifies one image and explains the verdict.
//
// Detector failures degrade the result, never the request: an image for
// which every detector failed still gets a well-formed UNCERTAIN response.
// Only a pipeline that cannot run at all (empty image, no detectors wired)
// produces a failure response — and even that carries an explanation.
func (a *Analyzer) Analyze(ctx context.Context, image []byte) *Response {
	requestID := uuid.NewString()

	if len(image) == 0 {
		return a.failureResponse(requestID, fmt.Errorf("empty image"))
	}
	if a.controller.Registered() == 0 {
		return a.failureResponse(requestID, fmt.Errorf("no detectors available"))
	}

	report := a.controller.Run(ctx, image)
	forensics := a.inspect(ctx, image)
	explanation := a.explainer.Build(report.Verdict, forensics)

	metrics.RecordVerdict(string(report.Verdict.Verdict))
	logging.LogEvent("analysis_complete", map[string]interface{}{
		"request_id":     requestID,
		"probability":    report.Verdict.AIProbability,
		"verdict":        string(report.Verdict.Verdict),
		"agreement":      string(report.Verdict.Agreement),
		"short_circuit":  report.ShortCircuited,
		"latency_ms":     report.TotalLatency.Milliseconds(),
	})

	return buildResponse(requestID, report.Verdict, explanation)
}

// inspect runs every forensic analyzer and folds the signals together.
// Analyzers go through the adapter so none can block past the invocation
// timeout. A failing, hung, or malformed signal is logged and treated as
// absent; forensic trouble never fails the request.
func (a *Analyzer) inspect(ctx context.Context, image []byte) detector.Forensics {
	var out detector.Forensics
	for _, f := range a.forensics {
		sig, err := a.adapter.Inspect(ctx, f, image)
		if err != nil {
			logging.Warnf("forensic analyzer %s failed, treating signal as absent: %v", f.ID(), err)
			continue
		}
		if sig != nil {
			out.Absorb(sig)
		}
	}
	return out
}

func buildResponse(requestID string, verdict *fusion.EnsembleVerdict, explanation *explain.Explanation) *Response {
	var caveat *string
	if explanation.Reasoning.Caveat != "" {
		c := explanation.Reasoning.Caveat
		caveat = &c
	}
	bullets := explanation.Reasoning.Bullets
	if bullets == nil {
		bullets = []string{}
	}

	return &Response{
		Success:       true,
		RequestID:     requestID,
		AIProbability: verdict.AIProbability,
		Verdict:       string(verdict.Verdict),
		VisualAnalysis: VisualAnalysis{
			Assessment:      explanation.Summary,
			Anomalies:       explanation.Anomalies,
			ModelBreakdown:  explanation.ModelBreakdown,
			AgreementLevel:  string(explanation.AgreementLevel),
			AgreementDetail: explanation.AgreementDetail,
		},
		Reasoning: Reasoning{Bullets: bullets, Caveat: caveat},
		CombinedVerdict: CombinedVerdict{
			CombinedProbability: verdict.AIProbability,
			Verdict:             string(verdict.Verdict),
			VerdictDescription:  explanation.VerdictDescription,
			AnalysisAgreement:   string(explanation.AgreementLevel),
		},
	}
}

// failureResponse is the total-failure shape: success=false, maximally
// uncertain verdict, and an explanation stating that explanation
// generation was unavailable — the field is never omitted.
func (a *Analyzer) failureResponse(requestID string, err error) *Response {
	logging.Errorf("analysis failed before any detector ran: %v", err)
	return &Response{
		Success:       false,
		RequestID:     requestID,
		AIProbability: 50,
		Verdict:       string(fusion.VerdictUncertain),
		VisualAnalysis: VisualAnalysis{
			Assessment:      "Analysis could not be performed — explanation generation was unavailable.",
			Anomalies:       []string{},
			ModelBreakdown:  []explain.ModelFinding{},
			AgreementLevel:  string(fusion.AgreementNoData),
			AgreementDetail: "No models produced results",
		},
		Reasoning: Reasoning{Bullets: []string{}},
		CombinedVerdict: CombinedVerdict{
			CombinedProbability: 50,
			Verdict:             string(fusion.VerdictUncertain),
			VerdictDescription:  "Analysis completed — explanation unavailable",
			AnalysisAgreement:   string(fusion.AgreementNoData),
		},
		Error: err.Error(),
	}
}
