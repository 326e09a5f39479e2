package fingerprint

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(files map[string]string, env map[string]string) *HostCollector {
	return &HostCollector{
		readFile: func(path string) ([]byte, error) {
			if v, ok := files[path]; ok {
				return []byte(v), nil
			}
			return nil, os.ErrNotExist
		},
		readlink: func(string) (string, error) { return "", os.ErrNotExist },
		getenv:   func(key string) string { return env[key] },
		location: func() *time.Location { return time.UTC },
		now:      func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestHostCollector_MachineID(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    string
		wantErr error
	}{
		{
			name:  "etc machine id",
			files: map[string]string{"/etc/machine-id": "abc123\n"},
			want:  "abc123",
		},
		{
			name: "falls back to dbus",
			files: map[string]string{
				"/etc/machine-id":          "   ",
				"/var/lib/dbus/machine-id": "dbus-id",
			},
			want: "dbus-id",
		},
		{
			name:    "nothing readable",
			files:   map[string]string{},
			wantErr: ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHost(tt.files, nil)
			got, err := h.Collect(context.Background(), SignalMachineID)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostCollector_Language(t *testing.T) {
	h := newTestHost(nil, map[string]string{"LANG": "en_US.UTF-8"})
	got, err := h.Collect(context.Background(), SignalLanguage)
	require.NoError(t, err)
	assert.Equal(t, "en_US.UTF-8", got)

	h = newTestHost(nil, map[string]string{"LANG": "en_US.UTF-8", "LC_ALL": "de_DE.UTF-8"})
	got, err = h.Collect(context.Background(), SignalLanguage)
	require.NoError(t, err)
	assert.Equal(t, "de_DE.UTF-8", got)

	h = newTestHost(nil, nil)
	_, err = h.Collect(context.Background(), SignalLanguage)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestHostCollector_RuntimeSignals(t *testing.T) {
	h := newTestHost(nil, nil)

	platform, err := h.Collect(context.Background(), SignalPlatform)
	require.NoError(t, err)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, platform)

	cpus, err := h.Collect(context.Background(), SignalHardwareConcurrency)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(runtime.NumCPU()), cpus)
}

func TestHostCollector_BrowserOnlySignalsUnsupported(t *testing.T) {
	h := newTestHost(nil, nil)
	for _, s := range []Signal{SignalCanvas, SignalAudio, SignalPlugins, SignalWebGLRenderer, SignalFonts} {
		_, err := h.Collect(context.Background(), s)
		assert.ErrorIs(t, err, ErrUnsupported, s)
	}
}

func TestHostCollector_Timezone(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		link     string
		location *time.Location
		want     string
	}{
		{
			name:     "tz variable",
			env:      map[string]string{"TZ": ":Europe/Berlin"},
			link:     "/usr/share/zoneinfo/America/New_York",
			location: time.UTC,
			want:     "Europe/Berlin",
		},
		{
			name:     "localtime link",
			link:     "/usr/share/zoneinfo/America/New_York",
			location: time.UTC,
			want:     "America/New_York",
		},
		{
			name:     "location name",
			location: time.FixedZone("Asia/Kolkata", 5*3600+1800),
			want:     "Asia/Kolkata",
		},
		{
			name:     "standard offset of an unnamed local zone",
			location: time.FixedZone("Local", -3*3600-1800),
			want:     "UTC-03:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHost(nil, tt.env)
			h.readlink = func(path string) (string, error) {
				if path == localtimePath && tt.link != "" {
					return tt.link, nil
				}
				return "", os.ErrNotExist
			}
			h.location = func() *time.Location { return tt.location }

			got, err := h.Collect(context.Background(), SignalTimezone)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostCollector_TimezoneStableAcrossDaylightSaving(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("zoneinfo unavailable: %v", err)
	}

	collect := func(loc *time.Location, at time.Time) string {
		h := newTestHost(nil, nil)
		h.location = func() *time.Location { return loc }
		h.now = func() time.Time { return at }
		got, err := h.Collect(context.Background(), SignalTimezone)
		require.NoError(t, err)
		return got
	}

	winter := time.Date(2026, time.January, 15, 12, 0, 0, 0, berlin)
	summer := time.Date(2026, time.July, 15, 12, 0, 0, 0, berlin)
	assert.Equal(t, collect(berlin, winter), collect(berlin, summer))
	assert.Equal(t, "Europe/Berlin", collect(berlin, summer))

	// Without a zone name only the offset is left, and it must still not
	// follow the clocks.
	unnamed := berlinLike(t)
	assert.Equal(t, collect(unnamed, winter), collect(unnamed, summer))
	assert.Equal(t, "UTC+01:00", collect(unnamed, summer))
}

// berlinLike loads the Berlin rules under the name "Local", the name
// time.Local carries when it was read from /etc/localtime.
func berlinLike(t *testing.T) *time.Location {
	t.Helper()
	data, err := os.ReadFile("/usr/share/zoneinfo/Europe/Berlin")
	if err != nil {
		t.Skipf("zoneinfo file unavailable: %v", err)
	}
	loc, err := time.LoadLocationFromTZData("Local", data)
	require.NoError(t, err)
	return loc
}
