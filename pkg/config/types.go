package config

// CostTier classifies a detector by how expensive it is to run.
// Fast detectors form the cascade's first tier; slow ones run only on escalation.
type CostTier string

const (
	CostTierFast CostTier = "fast"
	CostTierSlow CostTier = "slow"
)

// CalibrationPoint is one knot of a piecewise-linear calibration curve.
// Points must be sorted by Raw and non-decreasing in Calibrated.
type CalibrationPoint struct {
	Raw        float64 `yaml:"raw" json:"raw"`
	Calibrated float64 `yaml:"calibrated" json:"calibrated"`
}

// DetectorProfile is the static, read-only description of one detector kind.
// Profiles are loaded once at startup and shared across all in-flight requests.
type DetectorProfile struct {
	// ID is the unique detector key (e.g. "sdxl", "frequency")
	ID string `yaml:"id" json:"id"`

	// DisplayName is the human-readable model name shown in breakdowns
	DisplayName string `yaml:"display_name" json:"display_name"`

	// Architecture describes the underlying model family
	Architecture string `yaml:"architecture,omitempty" json:"architecture,omitempty"`

	// Accuracy is the reported benchmark accuracy, kept as free text
	// ("99.23%", "Supplementary", ...)
	Accuracy string `yaml:"accuracy,omitempty" json:"accuracy,omitempty"`

	// ReliabilityWeight is the fusion weight in (0, 1]
	ReliabilityWeight float64 `yaml:"reliability_weight" json:"reliability_weight"`

	// CostTier places the detector in the fast or slow cascade tier
	CostTier CostTier `yaml:"cost_tier" json:"cost_tier"`

	// Specialty describes what this detector is best at
	Specialty string `yaml:"specialty,omitempty" json:"specialty,omitempty"`

	// Detects lists the generator families this detector recognizes
	Detects string `yaml:"detects,omitempty" json:"detects,omitempty"`

	// AIInterpretation is the finding text used when the detector flags AI
	AIInterpretation string `yaml:"ai_interpretation,omitempty" json:"ai_interpretation,omitempty"`

	// HumanInterpretation is the finding text used when the detector does not flag AI
	HumanInterpretation string `yaml:"human_interpretation,omitempty" json:"human_interpretation,omitempty"`

	// AIReason and HumanReason are the plain-language reasoning bullets
	// shown to end users, one per verdict direction.
	AIReason    string `yaml:"ai_reason,omitempty" json:"ai_reason,omitempty"`
	HumanReason string `yaml:"human_reason,omitempty" json:"human_reason,omitempty"`

	// GeneratorSpecific marks specialists whose high-confidence hits are
	// surfaced as anomalies (diffusion fingerprints, degradation-resilient signals)
	GeneratorSpecific bool `yaml:"generator_specific,omitempty" json:"generator_specific,omitempty"`

	// AnomalyThreshold overrides the score above which this specialist's hit
	// becomes an anomaly. Zero means the default threshold of 80. Broad
	// detectors like the dual-encoder carry a higher bar so their routine
	// high scores don't read as anomalies.
	AnomalyThreshold float64 `yaml:"anomaly_threshold,omitempty" json:"anomaly_threshold,omitempty"`

	// Calibration is the per-detector calibration curve. Empty means the
	// identity mapping is used.
	Calibration []CalibrationPoint `yaml:"calibration,omitempty" json:"calibration,omitempty"`

	// ModelPath points at a local ONNX model file for detectors backed by
	// the optional onnxruntime integration. Empty for heuristic or external detectors.
	ModelPath string `yaml:"model_path,omitempty" json:"model_path,omitempty"`
}

// CascadeConfig tunes the fast-cascade controller.
type CascadeConfig struct {
	// Enabled controls whether tiered execution is used; when false every
	// detector runs in a single tier.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// UncertainLow / UncertainHigh bound the provisional-probability band
	// inside which the fast tier is considered inconclusive. Defaults: 40, 60.
	UncertainLow  float64 `yaml:"uncertain_low,omitempty" json:"uncertain_low,omitempty"`
	UncertainHigh float64 `yaml:"uncertain_high,omitempty" json:"uncertain_high,omitempty"`

	// DetectorTimeoutSeconds is the per-invocation timeout. Default: 30.
	DetectorTimeoutSeconds int `yaml:"detector_timeout_seconds,omitempty" json:"detector_timeout_seconds,omitempty"`

	// MaxConcurrent limits parallel detector invocations within a tier. Default: 8.
	MaxConcurrent int `yaml:"max_concurrent,omitempty" json:"max_concurrent,omitempty"`
}

// EngineConfig is the root configuration for the detection engine.
type EngineConfig struct {
	// Detectors lists the known detector profiles. When empty, the built-in
	// default registry is used.
	Detectors []DetectorProfile `yaml:"detectors,omitempty" json:"detectors,omitempty"`

	Cascade CascadeConfig `yaml:"cascade" json:"cascade"`
}

// ApplyDefaults fills zero values with the documented defaults.
func (c *CascadeConfig) ApplyDefaults() {
	if c.UncertainLow == 0 {
		c.UncertainLow = 40
	}
	if c.UncertainHigh == 0 {
		c.UncertainHigh = 60
	}
	if c.DetectorTimeoutSeconds == 0 {
		c.DetectorTimeoutSeconds = 30
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 8
	}
}
