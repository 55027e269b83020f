package config

const (
	defaultStateDir       = "~/.local/share/memekiosk"
	defaultAPIBind        = "0.0.0.0:8080"
	defaultDisplaySeconds = 5
	defaultViewer         = "feh"
	defaultPlayer         = "cvlc"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			APIBind:  defaultAPIBind,
		},
		Playback: Playback{
			DisplaySeconds: defaultDisplaySeconds,
			Viewer:         defaultViewer,
			Player:         defaultPlayer,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
