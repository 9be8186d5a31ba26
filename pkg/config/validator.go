package config

import "fmt"

// validateProfile checks one detector profile for structural problems.
func validateProfile(p DetectorProfile) error {
	if p.ID == "" {
		return fmt.Errorf("detector id is required")
	}
	if p.ReliabilityWeight <= 0 || p.ReliabilityWeight > 1 {
		return fmt.Errorf("reliability_weight must be in (0, 1], got %v", p.ReliabilityWeight)
	}
	switch p.CostTier {
	case CostTierFast, CostTierSlow:
	default:
		return fmt.Errorf("cost_tier must be %q or %q, got %q", CostTierFast, CostTierSlow, p.CostTier)
	}
	if p.AnomalyThreshold < 0 || p.AnomalyThreshold > 100 {
		return fmt.Errorf("anomaly_threshold must be in [0, 100], got %v", p.AnomalyThreshold)
	}
	if err := validateCurve(p.Calibration); err != nil {
		return fmt.Errorf("calibration curve: %w", err)
	}
	return nil
}

// validateCurve enforces the calibration invariants: at least two points,
// strictly increasing raw coordinates, non-decreasing calibrated coordinates
// (ties in raw score must never invert rank), all values within [0, 100].
func validateCurve(points []CalibrationPoint) error {
	if len(points) == 0 {
		return nil // identity mapping, explicitly allowed
	}
	if len(points) < 2 {
		return fmt.Errorf("need at least 2 points, got %d", len(points))
	}
	for i, pt := range points {
		if pt.Raw < 0 || pt.Raw > 100 || pt.Calibrated < 0 || pt.Calibrated > 100 {
			return fmt.Errorf("point %d out of [0,100] range: raw=%v calibrated=%v", i, pt.Raw, pt.Calibrated)
		}
		if i > 0 {
			if pt.Raw <= points[i-1].Raw {
				return fmt.Errorf("raw coordinates must be strictly increasing at point %d", i)
			}
			if pt.Calibrated < points[i-1].Calibrated {
				return fmt.Errorf("calibrated coordinates must be non-decreasing at point %d", i)
			}
		}
	}
	return nil
}

// validateConfigStructure checks the parsed config before it is used.
func validateConfigStructure(cfg *EngineConfig) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if cfg.Cascade.UncertainLow < 0 || cfg.Cascade.UncertainHigh > 100 {
		return fmt.Errorf("uncertain band must lie within [0, 100]")
	}
	if cfg.Cascade.UncertainLow > cfg.Cascade.UncertainHigh {
		return fmt.Errorf("uncertain_low (%v) must not exceed uncertain_high (%v)",
			cfg.Cascade.UncertainLow, cfg.Cascade.UncertainHigh)
	}
	seen := make(map[string]bool, len(cfg.Detectors))
	for _, p := range cfg.Detectors {
		if err := validateProfile(p); err != nil {
			return fmt.Errorf("detector %q: %w", p.ID, err)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate detector id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
