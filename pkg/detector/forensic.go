package detector

import "context"

// Forensic signals are categorical evidence (watermarks, provenance
// manifests, metadata) produced by specialty analyzers. They are never
// blended into the fused probability; the explainer consumes them as
// corroborating or overriding evidence. Each family is its own variant so
// downstream code can switch exhaustively instead of probing map keys.

// ForensicSignal is the closed set of forensic result variants.
type ForensicSignal interface {
	forensicSignal()
}

// WatermarkSignal reports an invisible AI watermark check.
type WatermarkSignal struct {
	Detected bool
	// Source names the watermark scheme when known (e.g. "Stable Diffusion").
	Source string
}

// C2PASignal reports a C2PA / Content Credentials manifest check.
type C2PASignal struct {
	HasManifest   bool
	IsAIGenerated bool
	// Generator names the signing AI tool when the manifest carries a
	// trainedAlgorithmicMedia assertion.
	Generator string
}

// MetadataSignal reports EXIF/metadata forensics.
type MetadataSignal struct {
	HasEXIF            bool
	AISoftwareDetected bool
	// Software is the creation tool recorded in metadata when present.
	Software string
}

func (WatermarkSignal) forensicSignal() {}
func (C2PASignal) forensicSignal()      {}
func (MetadataSignal) forensicSignal()  {}

// ForensicAnalyzer is implemented by specialty analyzers that produce
// categorical evidence rather than a probability score.
type ForensicAnalyzer interface {
	ID() string
	Inspect(ctx context.Context, image []byte) (ForensicSignal, error)
}

// Forensics aggregates the forensic signals gathered for one request.
// Any subset may be nil; a missing signal means "not detected", never an error.
type Forensics struct {
	Watermark *WatermarkSignal
	C2PA      *C2PASignal
	Metadata  *MetadataSignal
}

// Absorb files a signal into its slot. Later signals of the same family win.
func (f *Forensics) Absorb(sig ForensicSignal) {
	switch s := sig.(type) {
	case WatermarkSignal:
		f.Watermark = &s
	case C2PASignal:
		f.C2PA = &s
	case MetadataSignal:
		f.Metadata = &s
	}
}
