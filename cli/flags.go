package cli

var (
	verbose    bool
	configPath string
	logFormat  string

	// for screenshot command
	screenshotOutputPath  string
	screenshotFormat      string
	screenshotJpegQuality int
	screenshotMaxWidth    int

	// for io commands
	ioNormal       bool
	ioNormalFactor float64
	ioButton       string
	ioDouble       bool
)
