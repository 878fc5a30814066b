package inference

import "context"

// Region is an axis-aligned detection result in pixel coordinates,
// [x0,y0]..[x1,y1], with an optional relevance score. Callers convert
// regions to annotation rectangles and discard the score.
type Region struct {
	X0    int
	Y0    int
	X1    int
	Y1    int
	Score float64
}

// RegionDetector finds likely text regions on a page image.
type RegionDetector interface {
	// Name identifies the detector; it is recorded as the source id on
	// annotations it produces.
	Name() string
	DetectTextRegions(ctx context.Context, img []byte) ([]Region, error)
	Close() error
}

// NopDetector finds nothing. It stands in for a real detector in
// offline and test runs.
type NopDetector struct{}

func (NopDetector) Name() string { return "nop" }

func (NopDetector) DetectTextRegions(ctx context.Context, img []byte) ([]Region, error) {
	return nil, nil
}

func (NopDetector) Close() error { return nil }
