package explain

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/DhanushPillay/VisioNova/pkg/config"
	"github.com/DhanushPillay/VisioNova/pkg/detector"
	"github.com/DhanushPillay/VisioNova/pkg/fusion"
)

func testProfiles() []config.DetectorProfile {
	mk := func(id string, tier config.CostTier, specialist bool) config.DetectorProfile {
		return config.DetectorProfile{
			ID:                  id,
			DisplayName:         "Model " + id,
			Accuracy:            "99%",
			ReliabilityWeight:   1.0,
			CostTier:            tier,
			Specialty:           "specialty of " + id,
			Detects:             "generators " + id,
			AIInterpretation:    "ai interpretation " + id,
			HumanInterpretation: "human interpretation " + id,
			AIReason:            "ai reason " + id,
			HumanReason:         "human reason " + id,
			GeneratorSpecific:   specialist,
		}
	}
	zeta := mk("zeta", config.CostTierSlow, true)
	zeta.AnomalyThreshold = 95
	return []config.DetectorProfile{
		mk("alpha", config.CostTierFast, false),
		mk("beta", config.CostTierFast, false),
		mk("gamma", config.CostTierSlow, true),
		mk("delta", config.CostTierSlow, false),
		mk("epsilon", config.CostTierSlow, false),
		zeta,
	}
}

func okResult(id string, score float64) detector.Result {
	return detector.Result{DetectorID: id, Success: true, RawScore: score, CalibratedScore: score}
}

var _ = Describe("Explainer", func() {
	var (
		engine    *fusion.Engine
		explainer *Explainer
	)

	BeforeEach(func() {
		registry, err := config.NewRegistry(testProfiles())
		Expect(err).NotTo(HaveOccurred())
		engine = fusion.NewEngine(registry)
		explainer = New(registry, Capabilities{})
	})

	verdictFor := func(results ...detector.Result) *fusion.EnsembleVerdict {
		return engine.Fuse(results)
	}

	Describe("summary templates", func() {
		It("uses the unanimous-AI phrasing when every model flags AI", func() {
			exp := explainer.Build(verdictFor(okResult("alpha", 95), okResult("beta", 88)), detector.Forensics{})
			Expect(exp.Summary).To(ContainSubstring("almost certainly AI-generated"))
			Expect(exp.Summary).To(ContainSubstring("Every independent check"))
		})

		It("uses the majority-AI phrasing with counts", func() {
			exp := explainer.Build(verdictFor(
				okResult("alpha", 95), okResult("beta", 90), okResult("gamma", 85),
				okResult("delta", 60), okResult("epsilon", 40),
			), detector.Forensics{})
			Expect(exp.Summary).To(ContainSubstring("very likely AI-generated"))
			Expect(exp.Summary).To(ContainSubstring("4 out of 5"))
		})

		It("uses the unanimous-human phrasing when nothing flags AI", func() {
			exp := explainer.Build(verdictFor(okResult("alpha", 10), okResult("beta", 20)), detector.Forensics{})
			Expect(exp.Summary).To(ContainSubstring("real, authentic photograph"))
		})

		It("uses the majority-human phrasing with counts", func() {
			exp := explainer.Build(verdictFor(
				okResult("alpha", 30), okResult("beta", 25), okResult("gamma", 20),
				okResult("delta", 60), okResult("epsilon", 40),
			), detector.Forensics{})
			Expect(exp.Summary).To(ContainSubstring("most likely authentic"))
			Expect(exp.Summary).To(ContainSubstring("4 out of 5"))
		})

		It("reports missing models when nothing succeeded", func() {
			exp := explainer.Build(verdictFor(
				detector.Result{DetectorID: "alpha", Success: false, Error: "down"},
			), detector.Forensics{})
			Expect(exp.Summary).To(Equal("No detection models were available for this image."))
			Expect(exp.AgreementLevel).To(Equal(fusion.AgreementNoData))
			Expect(exp.ModelBreakdown).To(BeEmpty())
		})
	})

	Describe("model breakdown", func() {
		It("orders findings by score descending with direction-matched interpretations", func() {
			exp := explainer.Build(verdictFor(
				okResult("alpha", 40), okResult("beta", 90), okResult("gamma", 70),
			), detector.Forensics{})

			Expect(exp.ModelBreakdown).To(HaveLen(3))
			Expect(exp.ModelBreakdown[0].Key).To(Equal("beta"))
			Expect(exp.ModelBreakdown[1].Key).To(Equal("gamma"))
			Expect(exp.ModelBreakdown[2].Key).To(Equal("alpha"))

			Expect(exp.ModelBreakdown[0].Interpretation).To(Equal("ai interpretation beta"))
			Expect(exp.ModelBreakdown[0].FlaggedAsAI).To(BeTrue())
			Expect(exp.ModelBreakdown[2].Interpretation).To(Equal("human interpretation alpha"))
			Expect(exp.ModelBreakdown[2].FlaggedAsAI).To(BeFalse())
		})

		It("skips results without a registered profile", func() {
			exp := explainer.Build(verdictFor(okResult("alpha", 80), okResult("not-a-model", 99)), detector.Forensics{})
			Expect(exp.ModelBreakdown).To(HaveLen(1))
			Expect(exp.ModelBreakdown[0].Key).To(Equal("alpha"))
		})
	})

	Describe("reasoning bullets", func() {
		It("takes at most three reasons from verdict-agreeing detectors, strongest first", func() {
			exp := explainer.Build(verdictFor(
				okResult("alpha", 95), okResult("beta", 90), okResult("gamma", 85),
				okResult("delta", 80), okResult("epsilon", 20),
			), detector.Forensics{})

			Expect(exp.Reasoning.Bullets).To(HaveLen(3))
			Expect(exp.Reasoning.Bullets[0]).To(Equal("ai reason alpha"))
			Expect(exp.Reasoning.Bullets[1]).To(Equal("ai reason beta"))
			Expect(exp.Reasoning.Bullets[2]).To(Equal("ai reason gamma"))
		})

		It("prefers the weakest scores for human-leaning verdicts", func() {
			exp := explainer.Build(verdictFor(
				okResult("alpha", 35), okResult("beta", 10), okResult("gamma", 25),
			), detector.Forensics{})

			Expect(exp.Reasoning.Bullets[0]).To(Equal("human reason beta"))
			Expect(exp.Reasoning.Bullets[1]).To(Equal("human reason gamma"))
		})

		It("appends exactly one forensic bullet, C2PA taking precedence", func() {
			forensics := detector.Forensics{
				C2PA:      &detector.C2PASignal{HasManifest: true, IsAIGenerated: true, Generator: "DALL-E 3"},
				Watermark: &detector.WatermarkSignal{Detected: true, Source: "Stable Diffusion"},
				Metadata:  &detector.MetadataSignal{HasEXIF: false},
			}
			exp := explainer.Build(verdictFor(okResult("alpha", 90)), forensics)

			last := exp.Reasoning.Bullets[len(exp.Reasoning.Bullets)-1]
			Expect(last).To(ContainSubstring("C2PA"))
			Expect(last).To(ContainSubstring("DALL-E 3"))
			for _, b := range exp.Reasoning.Bullets[:len(exp.Reasoning.Bullets)-1] {
				Expect(b).NotTo(ContainSubstring("watermark"))
			}
		})

		It("falls back to the watermark bullet without C2PA", func() {
			forensics := detector.Forensics{
				Watermark: &detector.WatermarkSignal{Detected: true},
			}
			exp := explainer.Build(verdictFor(okResult("alpha", 90)), forensics)
			Expect(exp.Reasoning.Bullets[len(exp.Reasoning.Bullets)-1]).To(ContainSubstring("invisible AI watermark"))
		})

		It("uses the missing-EXIF bullet only for AI-leaning verdicts", func() {
			forensics := detector.Forensics{
				Metadata: &detector.MetadataSignal{HasEXIF: false},
			}
			aiExp := explainer.Build(verdictFor(okResult("alpha", 90)), forensics)
			Expect(aiExp.Reasoning.Bullets[len(aiExp.Reasoning.Bullets)-1]).To(ContainSubstring("no camera metadata"))

			humanExp := explainer.Build(verdictFor(okResult("alpha", 10)), forensics)
			for _, b := range humanExp.Reasoning.Bullets {
				Expect(b).NotTo(ContainSubstring("no camera metadata"))
			}
		})

		It("tolerates entirely absent forensic signals", func() {
			exp := explainer.Build(verdictFor(okResult("alpha", 90)), detector.Forensics{})
			Expect(exp.Reasoning.Bullets).NotTo(BeEmpty())
		})
	})

	Describe("caveats", func() {
		It("adds the disagreement caveat on a split decision", func() {
			exp := explainer.Build(verdictFor(okResult("alpha", 90), okResult("beta", 10)), detector.Forensics{})
			Expect(exp.AgreementLevel).To(Equal(fusion.AgreementSplit))
			Expect(exp.Reasoning.Caveat).To(ContainSubstring("detection models disagree"))
		})

		It("adds the dissent-count caveat for majority verdicts of three or more", func() {
			exp := explainer.Build(verdictFor(
				okResult("alpha", 90), okResult("beta", 80), okResult("gamma", 70),
				okResult("delta", 40), okResult("epsilon", 30),
			), detector.Forensics{})
			Expect(exp.AgreementLevel).To(Equal(fusion.AgreementMajorityAI))
			Expect(exp.Reasoning.Caveat).To(ContainSubstring("2 out of 5 checks pointed the other way"))
		})

		It("has no caveat for strong consensus", func() {
			exp := explainer.Build(verdictFor(okResult("alpha", 95), okResult("beta", 90)), detector.Forensics{})
			Expect(exp.Reasoning.Caveat).To(BeEmpty())
		})
	})

	Describe("anomalies", func() {
		It("flags unanimous AI classification", func() {
			exp := explainer.Build(verdictFor(okResult("alpha", 95), okResult("beta", 88)), detector.Forensics{})
			Expect(exp.Anomalies).To(ContainElement(ContainSubstring("unanimously classify this as AI-generated")))
		})

		It("flags unanimous human classification", func() {
			exp := explainer.Build(verdictFor(okResult("alpha", 5), okResult("beta", 12)), detector.Forensics{})
			Expect(exp.Anomalies).To(ContainElement(ContainSubstring("unanimously classify this as human-created")))
		})

		It("flags high-confidence hits from generator-specific specialists", func() {
			exp := explainer.Build(verdictFor(okResult("gamma", 92), okResult("alpha", 60)), detector.Forensics{})
			Expect(exp.Anomalies).To(ContainElement(ContainSubstring("Model gamma (92%)")))
		})

		It("does not flag specialists at or below the threshold", func() {
			exp := explainer.Build(verdictFor(okResult("gamma", 80), okResult("alpha", 60)), detector.Forensics{})
			Expect(exp.Anomalies).NotTo(ContainElement(ContainSubstring("Model gamma (80%)")))
		})

		It("honors a per-profile anomaly threshold", func() {
			// zeta carries its own bar of 95, so a score that would flag the
			// default specialist stays quiet.
			exp := explainer.Build(verdictFor(okResult("zeta", 92), okResult("alpha", 60)), detector.Forensics{})
			Expect(exp.Anomalies).NotTo(ContainElement(ContainSubstring("Model zeta (92%)")))
		})

		It("flags per-profile specialists above their own bar", func() {
			exp := explainer.Build(verdictFor(okResult("zeta", 97), okResult("alpha", 60)), detector.Forensics{})
			Expect(exp.Anomalies).To(ContainElement(ContainSubstring("Model zeta (97%)")))
		})

		It("flags statistical outliers in both directions", func() {
			exp := explainer.Build(verdictFor(
				okResult("alpha", 95), okResult("beta", 60), okResult("delta", 10),
			), detector.Forensics{})
			Expect(exp.Anomalies).To(ContainElement(ContainSubstring("scores much higher")))
			Expect(exp.Anomalies).To(ContainElement(ContainSubstring("scores much lower")))
		})

		It("surfaces watermark and C2PA evidence independently", func() {
			forensics := detector.Forensics{
				Watermark: &detector.WatermarkSignal{Detected: true, Source: "Meta"},
				C2PA:      &detector.C2PASignal{IsAIGenerated: true, Generator: "Firefly"},
			}
			exp := explainer.Build(verdictFor(okResult("alpha", 90)), forensics)
			Expect(exp.Anomalies).To(ContainElement("Invisible AI watermark detected (source: Meta)"))
			Expect(exp.Anomalies).To(ContainElement("C2PA Content Credentials confirm AI generation by Firefly"))
		})
	})

	Describe("determinism", func() {
		It("produces byte-identical explanations for the same inputs", func() {
			results := []detector.Result{
				okResult("alpha", 95), okResult("beta", 62), okResult("gamma", 40),
				{DetectorID: "delta", Success: false, Error: "down"},
			}
			forensics := detector.Forensics{Watermark: &detector.WatermarkSignal{Detected: true}}

			first := explainer.Build(verdictFor(results...), forensics)
			second := explainer.Build(verdictFor(results...), forensics)

			Expect(cmp.Diff(first, second)).To(BeEmpty())

			firstJSON, err := json.Marshal(first)
			Expect(err).NotTo(HaveOccurred())
			secondJSON, err := json.Marshal(second)
			Expect(err).NotTo(HaveOccurred())
			Expect(firstJSON).To(Equal(secondJSON))
		})
	})
})
