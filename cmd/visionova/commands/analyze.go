package commands

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DhanushPillay/VisioNova/pkg/calibration"
	"github.com/DhanushPillay/VisioNova/pkg/cascade"
	"github.com/DhanushPillay/VisioNova/pkg/config"
	"github.com/DhanushPillay/VisioNova/pkg/detector"
	"github.com/DhanushPillay/VisioNova/pkg/detector/forensics"
	"github.com/DhanushPillay/VisioNova/pkg/detector/onnx"
	"github.com/DhanushPillay/VisioNova/pkg/explain"
	"github.com/DhanushPillay/VisioNova/pkg/fusion"
	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
	"github.com/DhanushPillay/VisioNova/pkg/service"
)

var demoMode bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image-file>",
	Short: "Classify an image as AI-generated or authentic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		image, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}

		resp := analyzer.Analyze(cmd.Context(), image)

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&demoMode, "demo", false,
		"replace unavailable ML detectors with deterministic stand-ins (for trying the pipeline without model files)")
}

// buildAnalyzer wires the full pipeline from configuration. Detector
// availability is resolved here, once: ONNX-backed detectors load when the
// runtime and model file exist, the frequency analyzer gets a heuristic
// fallback, and everything else needs demo mode or stays unregistered.
func buildAnalyzer(cfg *config.EngineConfig) (*service.Analyzer, error) {
	registry, err := config.NewRegistry(cfg.Detectors)
	if err != nil {
		return nil, err
	}

	calibrator := calibration.New(registry)
	engine := fusion.NewEngine(registry)
	controller := cascade.NewController(registry, cfg.Cascade, calibrator, engine)

	for _, prof := range registry.Profiles() {
		d := instantiate(prof)
		if d == nil {
			logging.Warnf("detector %s unavailable (no model path or runtime); skipping", prof.ID)
			continue
		}
		if err := controller.Register(d); err != nil {
			return nil, err
		}
	}

	explainer := explain.New(registry, explain.Capabilities{})
	forensicAnalyzers := []detector.ForensicAnalyzer{
		forensics.NewMetadataAnalyzer(),
	}

	timeout := time.Duration(cfg.Cascade.DetectorTimeoutSeconds) * time.Second
	return service.NewAnalyzer(controller, explainer, forensicAnalyzers, timeout), nil
}

func instantiate(prof config.DetectorProfile) detector.Detector {
	var primary detector.Detector
	if prof.ModelPath != "" && onnx.RuntimeAvailable() {
		c, err := onnx.LoadClassifier(prof.ID, prof.ModelPath)
		if err != nil {
			logging.Warnf("detector %s: model load failed: %v", prof.ID, err)
		} else {
			primary = c
		}
	}

	// The frequency analyzer has a pure-Go heuristic path, so it always
	// runs; with a model configured the heuristic becomes the fallback.
	if prof.ID == "frequency" {
		heuristic := forensics.NewFrequencyAnalyzer()
		if primary == nil && prof.ModelPath == "" {
			return heuristic
		}
		return detector.NewWithFallback(prof.ID, primary, heuristic)
	}

	if primary != nil {
		return primary
	}
	if demoMode {
		return demoDetector(prof.ID)
	}
	return nil
}

// demoDetector is a deterministic stand-in keyed on the detector id, so
// demo runs are repeatable but not all identical.
func demoDetector(id string) detector.Detector {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &detector.Fake{Key: id, Score: float64(h.Sum32()%101)}
}
