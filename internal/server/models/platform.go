package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/deviceprov/internal/common"
)

// Platform identifies the target OS of a device build.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
)

// Platforms lists every supported platform.
var Platforms = []Platform{PlatformWindows, PlatformMacOS, PlatformLinux}

// ParsePlatform normalizes s and checks it against Platforms.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrorUnknownPlatform, s)
}
