package config

const (
	defaultConfigPath     = "~/.config/introseek/config.toml"
	defaultLogDir         = "~/.local/share/introseek/logs"
	defaultFPCalcBinary   = "fpcalc"
	defaultMaxSeconds     = 120
	defaultQuantumSeconds = 0.124
	defaultCacheFile      = "fingerprints.db"
	defaultScanWorkers    = 4
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

var defaultScanExtensions = []string{".mp3", ".m4a", ".aac", ".flac", ".ogg", ".opus", ".wav", ".mka", ".mkv", ".mp4"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
			LogDir:   defaultLogDir,
		},
		FPCalc: FPCalc{
			Binary:     defaultFPCalcBinary,
			MaxSeconds: defaultMaxSeconds,
		},
		Intro: Intro{
			QuantumSeconds: defaultQuantumSeconds,
		},
		Scan: Scan{
			Workers:    defaultScanWorkers,
			Extensions: append([]string(nil), defaultScanExtensions...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
