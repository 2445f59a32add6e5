package config

const (
	appName              = "whatswatched"
	configFileName       = "config.toml"
	defaultIndexFilename = ".whatswatched.json"
	defaultLogFormat     = "console"
	defaultLogLevel      = "warn"
	// PlayerEnvVar supplies the player command, as shell words, when the
	// config file does not set one.
	PlayerEnvVar = "WHATSWATCHED_PLAYER"
)

func defaultPlayerCommand() []string {
	return []string{"mpv"}
}

func defaultExtensions() []string {
	return []string{".mp4", ".mkv", ".avi", ".mov", ".flv", ".webm"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Player: Player{
			Command: defaultPlayerCommand(),
		},
		Index: Index{
			Filename:     defaultIndexFilename,
			Extensions:   defaultExtensions(),
			PruneMissing: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Display: Display{
			Banner: true,
		},
	}
}
