package hostinfo

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/oshokin/fivem-installer/internal/domain/platform"
	"github.com/oshokin/fivem-installer/internal/logger"
)

// ErrUnknownDistribution is returned for Linux hosts that are neither Ubuntu nor Debian.
// The caller may still ask the operator which build to use.
var ErrUnknownDistribution = errors.New("unrecognized linux distribution")

// Detection is the result of Detect.
type Detection struct {
	// OS is the runtime operating system.
	OS string
	// Distribution is the raw distribution identifier, Linux only.
	Distribution string
	// Version is the distribution or OS version.
	Version string
	// Tag is the matched platform, empty when unknown.
	Tag platform.Tag
}

// Detector inspects the current host.
type Detector struct {
	goos string
	info func(ctx context.Context) (*host.InfoStat, error)
}

// New creates a Detector for the current host.
func New() *Detector {
	return &Detector{goos: runtime.GOOS, info: host.InfoWithContext}
}

// Detect identifies the host. Non-Windows, non-Linux hosts fail with
// platform.ErrUnsupportedPlatform; unknown distributions with ErrUnknownDistribution.
func (d *Detector) Detect(ctx context.Context) (Detection, error) {
	result := Detection{OS: d.goos}

	switch d.goos {
	case "windows":
		result.Tag = platform.Windows
		logger.Info(ctx, "Detected Windows OS")

		return result, nil
	case "linux":
	default:
		return result, fmt.Errorf("%s: %w", d.goos, platform.ErrUnsupportedPlatform)
	}

	info, err := d.info(ctx)
	if err != nil {
		return result, fmt.Errorf("host info: %w", err)
	}

	result.Distribution = strings.ToLower(info.Platform)
	result.Version = info.PlatformVersion

	switch {
	case result.Distribution == string(platform.Ubuntu):
		result.Tag = platform.Ubuntu
	case result.Distribution == string(platform.Debian):
		result.Tag = platform.Debian
	case strings.EqualFold(info.PlatformFamily, "debian"):
		// Debian derivatives (Mint, Pop!_OS) ship apt and ufw like Ubuntu.
		result.Tag = platform.Ubuntu
	default:
		return result, fmt.Errorf("%s: %w", result.Distribution, ErrUnknownDistribution)
	}

	logger.InfoKV(ctx, "Detected Linux distribution",
		"distribution", result.Distribution,
		"version", result.Version,
		"platform", result.Tag.String())

	return result, nil
}
