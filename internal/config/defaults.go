package config

const (
	defaultDataDir           = "~/.local/share/cardwatch"
	defaultLogDir            = "~/.local/share/cardwatch/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultIntervalMinutes   = 5
	defaultPipelineTimeout   = 600
	defaultPageSize          = 200
	defaultRequestsPerSecond = 8.0
	defaultBurst             = 10
)

// defaultExcludedMarkers holds the reserved name substrings that denote an
// answer key instead of a candidate card.
var defaultExcludedMarkers = []string{"gabarito"}

// defaultExtensions holds the recognized scan file extensions.
var defaultExtensions = []string{"pdf", "png", "jpg", "jpeg"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Remote: Remote{
			PageSize:          defaultPageSize,
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
		},
		Pipeline: Pipeline{
			TimeoutSeconds: defaultPipelineTimeout,
		},
		Monitor: Monitor{
			IntervalMinutes: defaultIntervalMinutes,
		},
		Classify: Classify{
			ExcludedMarkers: append([]string(nil), defaultExcludedMarkers...),
			Extensions:      append([]string(nil), defaultExtensions...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
