package fingerprint

// Signal names one environmental input of the fingerprint.
type Signal string

// Known signals. The order of [OrderedSignals] is part of the fingerprint
// format and must not change.
const (
	SignalScreen              Signal = "screen"
	SignalTimezone            Signal = "timezone"
	SignalLanguage            Signal = "language"
	SignalPlatform            Signal = "platform"
	SignalHardwareConcurrency Signal = "hardware_concurrency"
	SignalPlugins             Signal = "plugins"
	SignalCanvas              Signal = "canvas"
	SignalWebGLRenderer       Signal = "webgl_renderer"
	SignalAudio               Signal = "audio"
	SignalFonts               Signal = "fonts"
	SignalTouch               Signal = "touch"
	SignalMediaDevices        Signal = "media_devices"
	SignalStorage             Signal = "storage"
	SignalMachineID           Signal = "machine_id"
)

// Unsupported is the value recorded for a signal that could not be read.
const Unsupported = "unsupported"

// OrderedSignals is the fixed serialization order.
var OrderedSignals = []Signal{
	SignalScreen,
	SignalTimezone,
	SignalLanguage,
	SignalPlatform,
	SignalHardwareConcurrency,
	SignalPlugins,
	SignalCanvas,
	SignalWebGLRenderer,
	SignalAudio,
	SignalFonts,
	SignalTouch,
	SignalMediaDevices,
	SignalStorage,
	SignalMachineID,
}

// Reading is one collected signal value.
type Reading struct {
	Signal Signal
	Value  string
}
