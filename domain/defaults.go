package domain

// Defaults shared by the config layer, the CLI and the MCP server.
const (
	// DefaultLanguage is the language used when none is configured.
	DefaultLanguage = "python"

	// DefaultPlaceholder replaces every masked identifier.
	DefaultPlaceholder = "xxx"

	// DefaultNoAnswer is the canonical form of a student who did not answer.
	// Such submissions never lead a cluster.
	DefaultNoAnswer = "-"

	// DefaultInterfaceLanguage selects the English quiz-server headers.
	DefaultInterfaceLanguage = "english"

	DefaultWorkers        = 1
	DefaultTimeoutSeconds = 300

	// DefaultSubmissionsDir is where SubmissionsQ<n> directories are created.
	DefaultSubmissionsDir = "."

	// DefaultReportsDir holds timestamped json/yaml/csv reports.
	DefaultReportsDir = ".copyscn/reports"

	// ReportFilePrefix names generated report files (copies_<timestamp>.<ext>).
	ReportFilePrefix = "copies"

	// ConfigFileName is discovered by walking up from the working directory.
	ConfigFileName = ".copyscn.toml"
)

// Interface languages of the quiz server export.
const (
	InterfaceEnglish = "english"
	InterfaceFrench  = "french"
)
