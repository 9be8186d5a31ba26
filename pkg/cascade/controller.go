// Package cascade runs detectors in cost tiers to bound latency: cheap
// detectors first, expensive ones only when the cheap tier is inconclusive.
package cascade

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DhanushPillay/VisioNova/pkg/calibration"
	"github.com/DhanushPillay/VisioNova/pkg/config"
	"github.com/DhanushPillay/VisioNova/pkg/detector"
	"github.com/DhanushPillay/VisioNova/pkg/fusion"
	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
	"github.com/DhanushPillay/VisioNova/pkg/observability/metrics"
)

// Report is the outcome of one cascade run.
type Report struct {
	// Verdict is the final fused verdict over every invoked detector.
	Verdict *fusion.EnsembleVerdict

	// FastInvocations and SlowInvocations count detector invocations per tier.
	FastInvocations int
	SlowInvocations int

	// ShortCircuited is true when the fast tier was decisive and the slow
	// tier never ran.
	ShortCircuited bool

	// Escalated is true when the slow tier ran.
	Escalated bool

	// TotalLatency is the wall-clock duration of the run.
	TotalLatency time.Duration
}

// Controller owns the staged execution policy. Detector instances are
// registered once at startup; Run is safe for concurrent requests because
// all mutable state is request-scoped.
type Controller struct {
	registry   *config.Registry
	cfg        config.CascadeConfig
	adapter    *detector.Adapter
	calibrator *calibration.Calibrator
	engine     *fusion.Engine
	detectors  map[string]detector.Detector
}

// NewController creates a cascade controller.
func NewController(
	registry *config.Registry,
	cfg config.CascadeConfig,
	calibrator *calibration.Calibrator,
	engine *fusion.Engine,
) *Controller {
	cfg.ApplyDefaults()
	return &Controller{
		registry:   registry,
		cfg:        cfg,
		adapter:    detector.NewAdapter(time.Duration(cfg.DetectorTimeoutSeconds) * time.Second),
		calibrator: calibrator,
		engine:     engine,
		detectors:  make(map[string]detector.Detector),
	}
}

// Register adds a detector instance. Registration is not safe concurrently
// with Run; wire all detectors before serving requests.
func (c *Controller) Register(d detector.Detector) error {
	if _, ok := c.registry.Lookup(d.ID()); !ok {
		return fmt.Errorf("detector %q has no registered profile", d.ID())
	}
	if _, dup := c.detectors[d.ID()]; dup {
		return fmt.Errorf("detector %q already registered", d.ID())
	}
	c.detectors[d.ID()] = d
	return nil
}

// Registered reports whether any detector instances are wired.
func (c *Controller) Registered() int { return len(c.detectors) }

// Run executes the cascade for one image and returns the fused verdict.
//
// States: TIER1_RUNNING → DECISION_CHECK → {DONE | TIER2_RUNNING} → DONE.
// The tier boundary is the only synchronization point: tier 2 does not
// start until every tier-1 invocation has completed or definitively failed.
func (c *Controller) Run(ctx context.Context, image []byte) *Report {
	start := time.Now()

	fastTier := c.instancesFor(config.CostTierFast)
	slowTier := c.instancesFor(config.CostTierSlow)

	if !c.cfg.Enabled {
		all := append(append([]detector.Detector{}, fastTier...), slowTier...)
		results := c.runTier(ctx, all, image)
		return &Report{
			Verdict:         c.engine.Fuse(results),
			FastInvocations: len(fastTier),
			SlowInvocations: len(slowTier),
			Escalated:       len(slowTier) > 0,
			TotalLatency:    time.Since(start),
		}
	}

	fastResults := c.runTier(ctx, fastTier, image)

	if !c.shouldEscalate(fastResults, len(slowTier)) {
		metrics.RecordCascadeOutcome("short_circuit")
		verdict := c.engine.Fuse(fastResults)
		logging.Debugf("cascade short-circuit: probability=%.1f agreement=%s",
			verdict.AIProbability, verdict.Agreement)
		return &Report{
			Verdict:         verdict,
			FastInvocations: len(fastTier),
			ShortCircuited:  true,
			TotalLatency:    time.Since(start),
		}
	}

	metrics.RecordCascadeOutcome("escalated")
	slowResults := c.runTier(ctx, slowTier, image)
	all := append(fastResults, slowResults...)

	return &Report{
		Verdict:         c.engine.Fuse(all),
		FastInvocations: len(fastTier),
		SlowInvocations: len(slowTier),
		Escalated:       true,
		TotalLatency:    time.Since(start),
	}
}

// shouldEscalate decides whether the slow tier must run. Escalation policy
// depends only on successful fast results: if none succeeded the fast tier
// said nothing, so the slow tier always runs (when it exists). Otherwise
// escalate when the provisional probability sits inside the uncertain band
// or the fast detectors are split.
func (c *Controller) shouldEscalate(fastResults []detector.Result, slowCount int) bool {
	if slowCount == 0 {
		return false
	}

	successes := 0
	for _, r := range fastResults {
		if r.Success {
			successes++
		}
	}
	if successes == 0 {
		return true
	}

	provisional := c.engine.Fuse(fastResults)
	if provisional.AIProbability >= c.cfg.UncertainLow && provisional.AIProbability <= c.cfg.UncertainHigh {
		return true
	}
	return provisional.Agreement == fusion.AgreementSplit
}

// runTier invokes every detector in the tier in parallel, bounded by
// MaxConcurrent, and waits for all of them. Results keep the tier's
// registration order regardless of completion order.
func (c *Controller) runTier(ctx context.Context, tier []detector.Detector, image []byte) []detector.Result {
	results := make([]detector.Result, len(tier))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxConcurrent)
	for i, d := range tier {
		i, d := i, d
		g.Go(func() error {
			r := c.adapter.Invoke(gctx, d, image)
			results[i] = c.calibrator.Apply(r)
			return nil // failures are data; never abort the tier
		})
	}
	// Invocations never return errors, so Wait only synchronizes.
	_ = g.Wait()
	return results
}

// instancesFor returns the registered detector instances whose profiles sit
// in the given tier, in registry order.
func (c *Controller) instancesFor(tier config.CostTier) []detector.Detector {
	var out []detector.Detector
	for _, p := range c.registry.ByTier(tier) {
		if d, ok := c.detectors[p.ID]; ok {
			out = append(out, d)
		}
	}
	return out
}
