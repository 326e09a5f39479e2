package fingerprint_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/fingerprint"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/mock"
)

var hexSHA256 = regexp.MustCompile(`^[0-9a-f]{64}$`)

type fixedCollector map[fingerprint.Signal]string

func (f fixedCollector) Collect(_ context.Context, s fingerprint.Signal) (string, error) {
	v, ok := f[s]
	if !ok {
		return "", fingerprint.ErrUnsupported
	}
	return v, nil
}

type panickingCollector struct{}

func (panickingCollector) Collect(context.Context, fingerprint.Signal) (string, error) {
	panic("collector crashed")
}

func TestGenerate_IsHexDigest(t *testing.T) {
	g := fingerprint.NewGenerator()
	assert.Regexp(t, hexSHA256, g.Generate(context.Background()))
}

func TestGenerate_DeterministicForSameSignals(t *testing.T) {
	host := fixedCollector{
		fingerprint.SignalPlatform: "linux/amd64",
		fingerprint.SignalTimezone: "UTC0",
	}

	a := fingerprint.NewGenerator(fingerprint.WithHostCollector(host))
	b := fingerprint.NewGenerator(fingerprint.WithHostCollector(host))

	assert.Equal(t, a.Generate(context.Background()), b.Generate(context.Background()))
}

func TestGenerate_ChangesWithAnySignal(t *testing.T) {
	host := fixedCollector{fingerprint.SignalPlatform: "linux/amd64"}

	base := fingerprint.NewGenerator(fingerprint.WithHostCollector(host))
	other := fingerprint.NewGenerator(
		fingerprint.WithHostCollector(host),
		fingerprint.WithSignal(fingerprint.SignalScreen, "1920x1080x24"),
	)

	assert.NotEqual(t, base.Generate(context.Background()), other.Generate(context.Background()))
}

func TestGenerate_CachesResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	collector := mock.NewMockCollector(ctrl)

	// Exactly one read per signal, however many times Generate runs.
	collector.EXPECT().
		Collect(gomock.Any(), gomock.Any()).
		Return("value", nil).
		Times(len(fingerprint.OrderedSignals))

	g := fingerprint.NewGenerator(fingerprint.WithHostCollector(collector))
	first := g.Generate(context.Background())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, g.Generate(context.Background()))
	}
}

func TestGenerate_DegradesFailingSignals(t *testing.T) {
	ctrl := gomock.NewController(t)
	broken := mock.NewMockCollector(ctrl)
	broken.EXPECT().Collect(gomock.Any(), fingerprint.SignalCanvas).Return("", errors.New("no canvas"))

	g := fingerprint.NewGenerator(
		fingerprint.WithHostCollector(fixedCollector{}),
		fingerprint.WithCollector(fingerprint.SignalCanvas, broken),
		fingerprint.WithCollector(fingerprint.SignalAudio, panickingCollector{}),
		fingerprint.WithSignal(fingerprint.SignalFonts, ""),
	)

	readings := g.Signals(context.Background())
	require.Len(t, readings, len(fingerprint.OrderedSignals))
	for _, r := range readings {
		assert.Equal(t, fingerprint.Unsupported, r.Value, r.Signal)
	}
	assert.Regexp(t, hexSHA256, g.Generate(context.Background()))
}

func TestSignals_FollowFixedOrder(t *testing.T) {
	g := fingerprint.NewGenerator(fingerprint.WithHostCollector(fixedCollector{}))

	readings := g.Signals(context.Background())
	require.Len(t, readings, len(fingerprint.OrderedSignals))
	for i, s := range fingerprint.OrderedSignals {
		assert.Equal(t, s, readings[i].Signal)
	}
}

func TestHash_FlattensNewlines(t *testing.T) {
	withNewline := []fingerprint.Reading{{Signal: fingerprint.SignalFonts, Value: "Arial\nplatform=evil"}}
	flattened := []fingerprint.Reading{{Signal: fingerprint.SignalFonts, Value: "Arial platform=evil"}}

	assert.Equal(t, fingerprint.Hash(flattened), fingerprint.Hash(withNewline))
}
