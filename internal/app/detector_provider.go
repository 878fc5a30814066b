package app

import (
	"fmt"
	"strings"

	"github.com/poojapi/ullekhanam/internal/clients/gcp"
	"github.com/poojapi/ullekhanam/internal/inference"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

const (
	RegionDetectorNop       = "nop"
	RegionDetectorGCPVision = "gcp_vision"
)

// resolveRegionDetector selects the text-region detector used when a
// page is first asked for annotations. The nop detector keeps the API
// usable without cloud credentials.
func resolveRegionDetector(log *logger.Logger, cfg Config) (inference.RegionDetector, error) {
	mode := strings.TrimSpace(strings.ToLower(cfg.RegionDetector))
	if mode == "" {
		mode = RegionDetectorNop
	}
	log.Info("Selecting region detector", "mode", mode)

	switch mode {
	case RegionDetectorNop:
		return inference.NopDetector{}, nil
	case RegionDetectorGCPVision:
		return gcp.NewVisionDetector(log)
	default:
		return nil, fmt.Errorf("unsupported region detector %q", mode)
	}
}
