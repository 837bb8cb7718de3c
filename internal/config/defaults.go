package config

const (
	defaultOutputDirectory = "output"
	defaultLogFormat       = "text"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		OutputDirectory: defaultOutputDirectory,
		Logging: Logging{
			Format: defaultLogFormat,
		},
	}
}
