package config

const (
	// AppName is the human-readable application name
	AppName = "Proposal Radar"

	// BinaryName is the command name
	BinaryName = "radar"

	// EnvPrefix namespaces every environment variable
	EnvPrefix = "RADAR"

	// Default locations, relative to the base directory
	DefaultInputPath  = "data/proposals.csv"
	DefaultOutputPath = "public/data/proposals.json"
	DefaultLogFile    = "logs/radar.log"

	// DefaultGeneratedAt is the static generated_at label of the document
	DefaultGeneratedAt = "2026"

	// GeneratedAtNow asks for the actual generation time instead of a label
	GeneratedAtNow = "now"

	// Default header names of the source sheet
	DefaultPartyColumn     = "Party"
	DefaultDimensionColumn = "Dimension"
	DefaultCategoryColumn  = "Technology Category"
	DefaultQuoteColumn     = "Verbatim Proposal Quote"
	DefaultMaturityColumn  = "Maturity"
)

// configFileLocations are tried in order when no config file is given
var configFileLocations = []string{
	"radar.yaml",
	"configs/radar.yaml",
}
