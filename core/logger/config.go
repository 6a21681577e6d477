package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `mapstructure:"level" default:"info"`
	// Format is the encoding: console or json.
	Format string `mapstructure:"format" default:"console"`
	// Output is where entries are written: stderr, stdout or a file path.
	// The interactive shell owns stdout, so stderr or a file keeps menus clean.
	Output string `mapstructure:"output" default:"stderr"`
}
