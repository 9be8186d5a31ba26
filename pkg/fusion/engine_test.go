package fusion

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhanushPillay/VisioNova/pkg/config"
	"github.com/DhanushPillay/VisioNova/pkg/detector"
)

func testEngine(t *testing.T, weights map[string]float64) *Engine {
	t.Helper()
	var profiles []config.DetectorProfile
	for id, w := range weights {
		profiles = append(profiles, config.DetectorProfile{
			ID:                id,
			DisplayName:       id,
			ReliabilityWeight: w,
			CostTier:          config.CostTierFast,
		})
	}
	registry, err := config.NewRegistry(profiles)
	require.NoError(t, err)
	return NewEngine(registry)
}

func ok(id string, calibrated float64) detector.Result {
	return detector.Result{DetectorID: id, Success: true, RawScore: calibrated, CalibratedScore: calibrated}
}

func failed(id string) detector.Result {
	return detector.Result{DetectorID: id, Success: false, Error: "model unavailable"}
}

func TestFuseWeightedMean(t *testing.T) {
	e := testEngine(t, map[string]float64{"a": 1.0, "b": 0.5})

	// (1.0*80 + 0.5*20) / 1.5 = 60
	v := e.Fuse([]detector.Result{ok("a", 80), ok("b", 20)})
	assert.InDelta(t, 60.0, v.AIProbability, 1e-9)
	assert.Equal(t, VerdictAIGenerated, v.Verdict)
}

func TestFuseExclusionInvariant(t *testing.T) {
	e := testEngine(t, map[string]float64{"a": 1.0, "b": 1.0, "c": 0.7})

	with := e.Fuse([]detector.Result{ok("a", 90), ok("b", 70), failed("c")})
	without := e.Fuse([]detector.Result{ok("a", 90), ok("b", 70)})

	// A failed detector contributes nothing: the fused output is identical
	// whether its entry is present or absent.
	diff := cmp.Diff(with, without, cmpopts.IgnoreFields(EnsembleVerdict{}, "Results"))
	assert.Empty(t, diff)
	assert.InDelta(t, 80.0, with.AIProbability, 1e-9)

	// The failed entry is still visible among contributing results.
	assert.Len(t, with.Results, 3)
	assert.Len(t, without.Results, 2)
}

func TestFuseZeroSuccessesIsDefinedDegenerateCase(t *testing.T) {
	e := testEngine(t, map[string]float64{"a": 1.0, "b": 1.0})

	v := e.Fuse([]detector.Result{failed("a"), failed("b")})
	assert.Equal(t, 50.0, v.AIProbability)
	assert.Equal(t, VerdictUncertain, v.Verdict)
	assert.Equal(t, AgreementNoData, v.Agreement)

	empty := e.Fuse(nil)
	assert.Equal(t, 50.0, empty.AIProbability)
	assert.Equal(t, VerdictUncertain, empty.Verdict)
}

func TestFuseTieBreakAtExactly50(t *testing.T) {
	e := testEngine(t, map[string]float64{"a": 1.0, "b": 1.0})

	// Averages to exactly 50: the midpoint resolves to Authentic.
	v := e.Fuse([]detector.Result{ok("a", 60), ok("b", 40)})
	assert.Equal(t, 50.0, v.AIProbability)
	assert.Equal(t, VerdictAuthentic, v.Verdict)
}

func TestFuseUnknownDetectorGetsDefaultWeight(t *testing.T) {
	e := testEngine(t, map[string]float64{"a": 0.5})

	// "mystery" has no profile; it participates with weight 1.0.
	v := e.Fuse([]detector.Result{ok("a", 100), ok("mystery", 40)})
	assert.InDelta(t, 60.0, v.AIProbability, 1e-9) // (0.5*100 + 1.0*40) / 1.5
}

func TestFuseDeterministic(t *testing.T) {
	e := testEngine(t, map[string]float64{"a": 1.0, "b": 0.9, "c": 0.8})
	input := []detector.Result{ok("a", 95), ok("b", 40), failed("c")}

	first := e.Fuse(input)
	second := e.Fuse(input)
	assert.Empty(t, cmp.Diff(first, second))
}
