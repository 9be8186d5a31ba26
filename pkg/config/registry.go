package config

import "fmt"

// Registry is the process-wide, read-only set of detector profiles.
// It is constructed once at startup and safe for concurrent readers.
type Registry struct {
	profiles map[string]DetectorProfile
	ordered  []DetectorProfile
}

// NewRegistry builds a registry from the given profiles after validation.
func NewRegistry(profiles []DetectorProfile) (*Registry, error) {
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}

	r := &Registry{
		profiles: make(map[string]DetectorProfile, len(profiles)),
		ordered:  make([]DetectorProfile, 0, len(profiles)),
	}
	for _, p := range profiles {
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("invalid profile %q: %w", p.ID, err)
		}
		if _, dup := r.profiles[p.ID]; dup {
			return nil, fmt.Errorf("duplicate detector profile id %q", p.ID)
		}
		r.profiles[p.ID] = p
		r.ordered = append(r.ordered, p)
	}
	return r, nil
}

// Lookup returns the profile for the given detector id.
func (r *Registry) Lookup(id string) (DetectorProfile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// Profiles returns all profiles in registration order.
func (r *Registry) Profiles() []DetectorProfile {
	out := make([]DetectorProfile, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByTier returns profiles in the given cost tier, in registration order.
func (r *Registry) ByTier(tier CostTier) []DetectorProfile {
	var out []DetectorProfile
	for _, p := range r.ordered {
		if p.CostTier == tier {
			out = append(out, p)
		}
	}
	return out
}

// Weight returns the reliability weight for the given detector id.
// Unknown detectors get weight 1.0 so results from ad-hoc detectors still count.
func (r *Registry) Weight(id string) float64 {
	if p, ok := r.profiles[id]; ok {
		return p.ReliabilityWeight
	}
	return 1.0
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int { return len(r.ordered) }

// DefaultProfiles provides the built-in detector registry.
// Users can override it by specifying detectors in their config.yaml;
// a user-supplied list completely replaces these defaults.
func DefaultProfiles() []DetectorProfile {
	return []DetectorProfile{
		{
			ID:                  "siglip_dinov2",
			DisplayName:         "Bombek1 SigLIP2+DINOv2",
			Architecture:        "Hybrid SigLIP2 + DINOv2 (dual-encoder)",
			Accuracy:            "99.97% AUC",
			ReliabilityWeight:   1.0,
			CostTier:            CostTierSlow,
			Specialty:           "Best overall detector — combines semantic + self-supervised features",
			Detects:             "25+ generators: Flux, MJ v6, DALL-E 3, SDXL, GPT-Image-1",
			AIInterpretation:    "Both semantic (SigLIP2) and structural (DINOv2) features indicate AI origin",
			HumanInterpretation: "Both semantic and structural features match authentic photographs",
			AIReason:            "Both the high-level meaning of the image and its pixel-level structure independently point to AI generation — a strong dual signal.",
			HumanReason:         "Both the image meaning and its low-level structure are consistent with authentic, camera-captured content.",
			GeneratorSpecific:   true,
			AnomalyThreshold:    95,
		},
		{
			ID:                  "ateeqq",
			DisplayName:         "Ateeqq SigLIP2",
			Architecture:        "SigLIP2 (Google Sigmoid Vision-Language)",
			Accuracy:            "99.23%",
			ReliabilityWeight:   0.95,
			CostTier:            CostTierFast,
			Specialty:           "High-precision general AI image detection using semantic visual features",
			Detects:             "Broad AI generators including DALL-E, Midjourney, Stable Diffusion",
			AIInterpretation:    "Semantic visual features match patterns from known AI image generators",
			HumanInterpretation: "Semantic features are consistent with natural photography",
			AIReason:            "The semantic visual features — the way shapes, textures, and colors relate — match patterns found in AI-generated images, not real photographs.",
			HumanReason:         "The overall semantic composition of the image is consistent with how a real camera captures a scene.",
		},
		{
			ID:                  "deepfake",
			DisplayName:         "dima806 ViT",
			Architecture:        "Vision Transformer (ViT-B/16)",
			Accuracy:            "98.25%",
			ReliabilityWeight:   0.85,
			CostTier:            CostTierFast,
			Specialty:           "General deepfake and AI image detection with strong community validation",
			Detects:             "General AI-generated images and face manipulations",
			AIInterpretation:    "Global compositional patterns detected by Vision Transformer indicate AI generation",
			HumanInterpretation: "Global image composition is consistent with natural capture",
			AIReason:            "The image's global composition has subtle, regular patterns that cameras don't produce — a hallmark of AI generation.",
			HumanReason:         "The overall composition and layout of the image looks consistent with natural camera capture.",
		},
		{
			ID:                  "sdxl",
			DisplayName:         "Organika SDXL-Detector",
			Architecture:        "Swin Transformer",
			Accuracy:            "98.1%",
			ReliabilityWeight:   0.8,
			CostTier:            CostTierSlow,
			Specialty:           "Specialist for modern diffusion models (SDXL, Flux, SD3)",
			Detects:             "Stable Diffusion XL, Flux, and other modern diffusion model outputs",
			AIInterpretation:    "Patterns match known Stable Diffusion / Flux generator fingerprints",
			HumanInterpretation: "No diffusion model fingerprints detected",
			AIReason:            "The pixel-level fingerprints match those left behind by Stable Diffusion, Flux, or similar diffusion models.",
			HumanReason:         "No diffusion-model fingerprints (Stable Diffusion, Flux, SDXL) were found in the image.",
			GeneratorSpecific:   true,
		},
		{
			ID:                  "dinov2",
			DisplayName:         "WpythonW DINOv2",
			Architecture:        "DINOv2 (Self-Supervised ViT)",
			Accuracy:            "Degradation-resilient",
			ReliabilityWeight:   0.8,
			CostTier:            CostTierSlow,
			Specialty:           "Resilient to compression and social media processing",
			Detects:             "AI images even after heavy JPEG compression, resizing, or social media upload",
			AIInterpretation:    "AI artifacts persist even through image degradation — strong structural signal",
			HumanInterpretation: "Structural features remain consistent with genuine images under compression",
			AIReason:            "Structural AI artifacts were detected that persist even after compression or social media processing — a strong indicator.",
			HumanReason:         "The image structure remains consistent with genuine photos even under compression analysis.",
			GeneratorSpecific:   true,
		},
		{
			ID:                  "frequency",
			DisplayName:         "Frequency Analyzer",
			Architecture:        "FFT/DCT Analysis",
			Accuracy:            "Supplementary",
			ReliabilityWeight:   0.3,
			CostTier:            CostTierFast,
			Specialty:           "Detects GAN-specific spectral fingerprints in the frequency domain",
			Detects:             "GAN upsampling artifacts, periodic patterns from transposed convolutions",
			AIInterpretation:    "Frequency domain shows periodic patterns typical of GAN upsampling",
			HumanInterpretation: "Frequency spectrum appears natural",
			AIReason:            "The frequency domain of the image shows periodic patterns created by upsampling algorithms, which are invisible to the eye but common in GAN-generated images.",
			HumanReason:         "The frequency spectrum of the image looks natural, without the periodic noise typically introduced by AI generation.",
		},
	}
}
