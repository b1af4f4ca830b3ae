package config

const (
	defaultConfigPath     = "~/.config/fwconv/config.toml"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultLineTerminator = "\n"
	defaultJournalPath    = "~/.local/share/fwconv/journal.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Output: Output{
			LineTerminator: defaultLineTerminator,
		},
		Journal: Journal{
			Path: defaultJournalPath,
		},
	}
}
