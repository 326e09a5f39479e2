package fingerprint

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const localtimePath = "/etc/localtime"

var machineIDPaths = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
	"/sys/class/dmi/id/product_uuid",
}

// HostCollector reads the signals a native process can observe. Browser-only
// signals (canvas, audio, plugins...) report [ErrUnsupported].
type HostCollector struct {
	readFile func(string) ([]byte, error)
	readlink func(string) (string, error)
	getenv   func(string) string
	location func() *time.Location
	now      func() time.Time
}

// NewHostCollector returns a collector backed by the OS.
func NewHostCollector() *HostCollector {
	return &HostCollector{
		readFile: os.ReadFile,
		readlink: os.Readlink,
		getenv:   os.Getenv,
		location: func() *time.Location { return time.Local },
		now:      time.Now,
	}
}

// Collect implements [Collector].
func (h *HostCollector) Collect(_ context.Context, signal Signal) (string, error) {
	switch signal {
	case SignalTimezone:
		return h.timezone(), nil
	case SignalLanguage:
		for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
			if v := h.getenv(key); v != "" {
				return v, nil
			}
		}
		return "", ErrUnsupported
	case SignalPlatform:
		return runtime.GOOS + "/" + runtime.GOARCH, nil
	case SignalHardwareConcurrency:
		return strconv.Itoa(runtime.NumCPU()), nil
	case SignalStorage:
		return h.storage(), nil
	case SignalMachineID:
		return h.machineID()
	default:
		return "", ErrUnsupported
	}
}

// timezone names the configured zone rather than the abbreviation in force,
// so the value is the same on both sides of a daylight saving change. It
// prefers the TZ variable, then the /etc/localtime link target, then the
// location name, and finally the zone's standard offset.
func (h *HostCollector) timezone() string {
	if tz := strings.TrimPrefix(h.getenv("TZ"), ":"); tz != "" {
		return tz
	}
	if target, err := h.readlink(localtimePath); err == nil {
		if _, name, ok := strings.Cut(target, "zoneinfo/"); ok && name != "" {
			return name
		}
	}

	loc := h.location()
	if name := loc.String(); name != "" && name != "Local" {
		return name
	}
	return standardOffset(loc, h.now().Year())
}

// standardOffset formats the smaller of the January and July offsets of the
// year, which is the zone's non-DST offset in either hemisphere.
func standardOffset(loc *time.Location, year int) string {
	_, jan := time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Zone()
	_, jul := time.Date(year, time.July, 1, 0, 0, 0, 0, loc).Zone()
	offset := min(jan, jul)

	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, offset/3600, offset%3600/60)
}

func (h *HostCollector) storage() string {
	var available []string
	if _, err := os.UserCacheDir(); err == nil {
		available = append(available, "cache")
	}
	if _, err := os.UserConfigDir(); err == nil {
		available = append(available, "config")
	}
	if len(available) == 0 {
		return "none"
	}
	return strings.Join(available, ",")
}

func (h *HostCollector) machineID() (string, error) {
	for _, path := range machineIDPaths {
		data, err := h.readFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	return "", ErrUnsupported
}
