// Package commands implements the visionova CLI.
package commands

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/DhanushPillay/VisioNova/pkg/config"
	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
)

var (
	configPath  string
	metricsPort int
)

var rootCmd = &cobra.Command{
	Use:   "visionova",
	Short: "AI-generated image detection engine",
	Long: `VisioNova classifies images as AI-generated or authentic by fusing
multiple independent detectors into one calibrated, explained verdict.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.InitFromEnv()
		if metricsPort > 0 {
			go serveMetrics(metricsPort)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (built-in defaults when empty)")
	rootCmd.PersistentFlags().IntVar(&metricsPort, "metrics-port", 0, "port for Prometheus metrics (0 disables)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(profilesCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.EngineConfig, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logging.Infof("Starting metrics server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.Errorf("Metrics server error: %v", err)
	}
}
