package gcp

import (
	"context"
	"fmt"
	"math"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/poojapi/ullekhanam/internal/inference"
	"github.com/poojapi/ullekhanam/internal/pkg/ctxutil"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

const visionDetectorName = "gcp_vision"

// visionDetector implements inference.RegionDetector on the Cloud
// Vision document text API. Each detected block becomes one region.
type visionDetector struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient
}

func NewVisionDetector(log *logger.Logger) (inference.RegionDetector, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.VisionDetector")

	client, err := vision.NewImageAnnotatorClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &visionDetector{log: slog, client: client}, nil
}

func (d *visionDetector) Name() string { return visionDetectorName }

func (d *visionDetector) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *visionDetector) DetectTextRegions(ctx context.Context, img []byte) ([]inference.Region, error) {
	if len(img) == 0 {
		return nil, nil
	}

	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
	}
	resp, err := d.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, nil
	}
	res := resp.Responses[0]
	if res.Error != nil {
		return nil, fmt.Errorf("annotate image: %s", res.Error.GetMessage())
	}
	if res.FullTextAnnotation == nil {
		return nil, nil
	}

	var regions []inference.Region
	for _, page := range res.FullTextAnnotation.Pages {
		for _, block := range page.Blocks {
			r, ok := regionFromBox(block.BoundingBox)
			if !ok {
				continue
			}
			r.Score = float64(block.Confidence)
			regions = append(regions, r)
		}
	}
	d.log.Debug("Detected text regions", "count", len(regions))
	return regions, nil
}

func regionFromBox(box *visionpb.BoundingPoly) (inference.Region, bool) {
	if box == nil || len(box.Vertices) == 0 {
		return inference.Region{}, false
	}
	minX, minY := math.MaxInt32, math.MaxInt32
	maxX, maxY := math.MinInt32, math.MinInt32
	for _, v := range box.Vertices {
		x, y := int(v.X), int(v.Y)
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	if maxX <= minX || maxY <= minY {
		return inference.Region{}, false
	}
	return inference.Region{X0: minX, Y0: minY, X1: maxX, Y1: maxY}, true
}
