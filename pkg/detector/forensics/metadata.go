// Package forensics provides non-ML evidence analyzers: EXIF metadata
// forensics and a frequency-domain heuristic. They corroborate the ML
// ensemble but never feed the fused probability.
package forensics

import (
	"bytes"
	"context"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/DhanushPillay/VisioNova/pkg/detector"
	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
)

// aiSoftwareMarkers are substrings of EXIF Software/creator tags that name
// known AI generation tools.
var aiSoftwareMarkers = []string{
	"midjourney",
	"dall-e",
	"dall·e",
	"dalle",
	"stable diffusion",
	"sdxl",
	"adobe firefly",
	"firefly",
	"flux",
	"leonardo",
	"runway",
	"ideogram",
	"nightcafe",
	"craiyon",
}

// MetadataAnalyzer inspects EXIF metadata for AI-authoring evidence and
// for the absence of camera metadata.
type MetadataAnalyzer struct{}

// NewMetadataAnalyzer creates the analyzer.
func NewMetadataAnalyzer() *MetadataAnalyzer { return &MetadataAnalyzer{} }

func (m *MetadataAnalyzer) ID() string { return "metadata" }

// Inspect decodes EXIF data from the image. Images without parseable EXIF
// yield HasEXIF=false; a decode failure is evidence of missing metadata,
// not an error.
func (m *MetadataAnalyzer) Inspect(ctx context.Context, image []byte) (detector.ForensicSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, err := exif.Decode(bytes.NewReader(image))
	if err != nil || x == nil {
		logging.Debugf("metadata: no EXIF block found (%v)", err)
		return detector.MetadataSignal{HasEXIF: false}, nil
	}

	signal := detector.MetadataSignal{HasEXIF: true}

	if tag, err := x.Get(exif.Software); err == nil {
		if software, err := tag.StringVal(); err == nil && software != "" {
			signal.Software = software
			lower := strings.ToLower(software)
			for _, marker := range aiSoftwareMarkers {
				if strings.Contains(lower, marker) {
					signal.AISoftwareDetected = true
					break
				}
			}
		}
	}

	return signal, nil
}
