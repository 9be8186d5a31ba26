// Package explain turns an ensemble verdict and its forensic signals into
// a structured, evidence-grounded narrative: summary, agreement analysis,
// anomalies, per-detector findings and caveats. No generative model is
// involved; every sentence is assembled from detector evidence.
package explain

import (
	"fmt"
	"math"
	"sort"

	"github.com/DhanushPillay/VisioNova/pkg/config"
	"github.com/DhanushPillay/VisioNova/pkg/detector"
	"github.com/DhanushPillay/VisioNova/pkg/fusion"
)

// Thresholds for anomaly detection.
const (
	// specialistThreshold is the score above which a generator-specific
	// specialist's hit becomes its own anomaly, unless the profile carries
	// its own AnomalyThreshold.
	specialistThreshold = 80

	// outlierDeviation is the distance from the mean score beyond which a
	// detector counts as a statistical outlier.
	outlierDeviation = 30

	// outlierMinModels is the minimum ensemble size for outlier analysis
	// to be meaningful.
	outlierMinModels = 3
)

// Explainer builds explanations from verdicts. It is stateless apart from
// the read-only profile registry, so one instance serves all requests.
type Explainer struct {
	registry *config.Registry
	caps     Capabilities
}

// New creates an explainer. Capabilities are resolved by the caller once at
// startup (e.g. whether a heatmap provider is wired in).
func New(registry *config.Registry, caps Capabilities) *Explainer {
	return &Explainer{registry: registry, caps: caps}
}

// Capabilities returns the optional features this explainer supports.
func (e *Explainer) Capabilities() Capabilities { return e.caps }

// Build produces the explanation for a verdict. It is a pure function of
// its inputs: feeding the same verdict and forensics twice yields identical
// explanations. Any subset of forensic signals may be absent; a missing
// signal means "not detected".
func (e *Explainer) Build(verdict *fusion.EnsembleVerdict, forensics detector.Forensics) *Explanation {
	breakdown := e.buildBreakdown(verdict.Results)

	flagging, total := 0, len(breakdown)
	for _, m := range breakdown {
		if m.FlaggedAsAI {
			flagging++
		}
	}

	isAI := verdict.AIProbability > 50

	method := "Ensemble Disagreement Analysis"
	if e.caps.Heatmap {
		method += " + Attention Heatmap"
	}

	return &Explanation{
		Summary:            e.summary(flagging, total, isAI),
		Reasoning:          e.reasoning(breakdown, verdict.Agreement, isAI, forensics),
		ModelBreakdown:     breakdown,
		Anomalies:          e.anomalies(breakdown, forensics),
		AgreementLevel:     verdict.Agreement,
		AgreementDetail:    verdict.AgreementDetail,
		VerdictDescription: verdictDescription(isAI, flagging, total),
		Method:             method,
	}
}

// buildBreakdown converts successful detector results into findings,
// strongest signals first. Results without a registered profile are
// utility signals, not detection models, and are skipped.
func (e *Explainer) buildBreakdown(results []detector.Result) []ModelFinding {
	findings := make([]ModelFinding, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		prof, ok := e.registry.Lookup(r.DetectorID)
		if !ok {
			continue
		}
		flagged := r.CalibratedScore > 50
		interpretation := prof.HumanInterpretation
		if flagged {
			interpretation = prof.AIInterpretation
		}
		findings = append(findings, ModelFinding{
			Name:           prof.DisplayName,
			Key:            prof.ID,
			Score:          round1(r.CalibratedScore),
			Accuracy:       prof.Accuracy,
			Specialty:      prof.Specialty,
			Detects:        prof.Detects,
			Interpretation: interpretation,
			FlaggedAsAI:    flagged,
		})
	}
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Score != findings[j].Score {
			return findings[i].Score > findings[j].Score
		}
		return findings[i].Key < findings[j].Key
	})
	return findings
}

// summary produces the single plain-English verdict sentence. Phrasing
// varies by direction and consensus strength: unanimous, majority, mixed.
func (e *Explainer) summary(flagging, total int, isAI bool) string {
	if total == 0 {
		return "No detection models were available for this image."
	}

	if isAI {
		switch {
		case flagging == total:
			return "This image is almost certainly AI-generated. Every independent check we ran came to the same conclusion."
		case flagging*2 > total:
			return fmt.Sprintf("This image is very likely AI-generated. %d out of %d independent checks agree on this.", flagging, total)
		default:
			return "This image shows signs of AI generation, though the evidence is mixed. Treat this result with some caution."
		}
	}

	switch {
	case flagging == 0:
		return "This image appears to be a real, authentic photograph. No AI generation patterns were found."
	case flagging*2 < total:
		return fmt.Sprintf("This image is most likely authentic. %d out of %d checks agree it is human-created.", total-flagging, total)
	default:
		return "This image appears authentic, but the evidence is mixed. Some AI patterns were detected — verify with additional sources if needed."
	}
}

// reasoning assembles the bullet list: up to three plain-language reasons
// from detectors that agree with the verdict direction, strongest first,
// deduplicated; then at most one forensic bullet chosen by fixed
// precedence (C2PA > watermark > AI-authoring metadata > missing EXIF).
func (e *Explainer) reasoning(
	breakdown []ModelFinding,
	agreement fusion.AgreementLevel,
	isAI bool,
	forensics detector.Forensics,
) Reasoning {
	agreeing := make([]ModelFinding, 0, len(breakdown))
	for _, m := range breakdown {
		if m.FlaggedAsAI == isAI {
			agreeing = append(agreeing, m)
		}
	}
	if !isAI {
		// For human-leaning verdicts the lowest scores are the strongest
		// authenticity signals.
		sort.SliceStable(agreeing, func(i, j int) bool {
			if agreeing[i].Score != agreeing[j].Score {
				return agreeing[i].Score < agreeing[j].Score
			}
			return agreeing[i].Key < agreeing[j].Key
		})
	}

	var bullets []string
	seen := make(map[string]bool)
	for _, m := range agreeing {
		if len(bullets) == 3 {
			break
		}
		prof, ok := e.registry.Lookup(m.Key)
		if !ok {
			continue
		}
		reason := prof.HumanReason
		if isAI {
			reason = prof.AIReason
		}
		if reason == "" || seen[reason] {
			continue
		}
		bullets = append(bullets, reason)
		seen[reason] = true
	}

	if b := forensicBullet(forensics, isAI); b != "" {
		bullets = append(bullets, b)
	}

	return Reasoning{
		Bullets: bullets,
		Caveat:  caveat(agreement, len(breakdown), len(agreeing)),
	}
}

// forensicBullet returns the single highest-precedence forensic reason, or
// empty when none applies.
func forensicBullet(f detector.Forensics, isAI bool) string {
	if f.C2PA != nil && f.C2PA.IsAIGenerated {
		generator := f.C2PA.Generator
		if generator == "" {
			generator = "an AI tool"
		}
		return fmt.Sprintf("The image contains verified digital credentials (C2PA) that confirm it was created by %s.", generator)
	}
	if f.Watermark != nil && f.Watermark.Detected {
		return "An invisible AI watermark was detected embedded in the image — a strong indicator of AI generation."
	}
	if f.Metadata != nil && f.Metadata.AISoftwareDetected && isAI {
		sw := f.Metadata.Software
		if sw == "" {
			sw = "AI software"
		}
		return fmt.Sprintf("The image metadata records %s as the creation tool.", sw)
	}
	if f.Metadata != nil && !f.Metadata.HasEXIF && isAI {
		return "The image has no camera metadata (EXIF data). Real photographs almost always contain this information."
	}
	return ""
}

// caveat is populated only for split decisions (generic disagreement) or
// majority verdicts of at least three detectors with dissenters.
func caveat(agreement fusion.AgreementLevel, total, agreeing int) string {
	switch agreement {
	case fusion.AgreementSplit:
		return "The detection models disagree on this image, which can happen when an image is heavily " +
			"compressed, filtered, or sits at the boundary of what current detectors can identify. " +
			"We recommend additional verification."
	case fusion.AgreementMajorityAI, fusion.AgreementMajorityHuman:
		if total >= 3 {
			if dissenting := total - agreeing; dissenting > 0 {
				return fmt.Sprintf("%d out of %d checks pointed the other way. This result is likely correct, but not unanimous.", dissenting, total)
			}
		}
	}
	return ""
}

// anomalies flags notable findings: unanimity, high-confidence specialist
// hits, statistical outliers, and forensic corroboration. Forensic evidence
// is surfaced independently, never merged into the probability.
func (e *Explainer) anomalies(breakdown []ModelFinding, forensics detector.Forensics) []string {
	anomalies := []string{}

	flagging := 0
	for _, m := range breakdown {
		if m.FlaggedAsAI {
			flagging++
		}
	}
	if n := len(breakdown); n > 0 {
		switch flagging {
		case n:
			anomalies = append(anomalies, fmt.Sprintf("All %d detection models unanimously classify this as AI-generated", n))
		case 0:
			anomalies = append(anomalies, fmt.Sprintf("All %d detection models unanimously classify this as human-created", n))
		}
	}

	for _, m := range breakdown {
		prof, ok := e.registry.Lookup(m.Key)
		if !ok || !prof.GeneratorSpecific {
			continue
		}
		threshold := float64(specialistThreshold)
		if prof.AnomalyThreshold > 0 {
			threshold = prof.AnomalyThreshold
		}
		if m.FlaggedAsAI && m.Score > threshold {
			anomalies = append(anomalies, fmt.Sprintf("%s (%.0f%%) — %s", m.Name, m.Score, prof.AIInterpretation))
		}
	}

	if len(breakdown) >= outlierMinModels {
		var mean float64
		for _, m := range breakdown {
			mean += m.Score
		}
		mean /= float64(len(breakdown))
		for _, m := range breakdown {
			deviation := m.Score - mean
			if deviation > outlierDeviation {
				anomalies = append(anomalies, fmt.Sprintf(
					"%s scores much higher (%.0f%% vs avg %.0f%%) — may be detecting generator-specific artifacts",
					m.Name, m.Score, mean))
			} else if deviation < -outlierDeviation {
				anomalies = append(anomalies, fmt.Sprintf(
					"%s scores much lower (%.0f%% vs avg %.0f%%) — this model's specialty may not match the image type",
					m.Name, m.Score, mean))
			}
		}
	}

	if forensics.Watermark != nil && forensics.Watermark.Detected {
		source := forensics.Watermark.Source
		if source == "" {
			source = "Unknown"
		}
		anomalies = append(anomalies, fmt.Sprintf("Invisible AI watermark detected (source: %s)", source))
	}
	if forensics.C2PA != nil && forensics.C2PA.IsAIGenerated {
		generator := forensics.C2PA.Generator
		if generator == "" {
			generator = "Unknown"
		}
		anomalies = append(anomalies, fmt.Sprintf("C2PA Content Credentials confirm AI generation by %s", generator))
	}

	return anomalies
}

func verdictDescription(isAI bool, flagging, total int) string {
	if isAI {
		return fmt.Sprintf("AI-Generated — %d/%d checks agree", flagging, total)
	}
	return fmt.Sprintf("Authentic — %d/%d checks agree", total-flagging, total)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
