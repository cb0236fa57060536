package config

// Config represents the assembler server's runtime settings, loaded
// from a config file (if present) and overlaid with environment
// variables.
type Config struct {
	RootDir     string `koanf:"root_dir"`
	Addr        string `koanf:"addr"`
	IdleSeconds int    `koanf:"idle_seconds"`
	LogLevel    string `koanf:"log_level"`
}

// Defaults returns the configuration used when no file or environment
// override is present.
func Defaults() Config {
	return Config{
		RootDir:     ".",
		Addr:        ":8080",
		IdleSeconds: 10,
		LogLevel:    "info",
	}
}
