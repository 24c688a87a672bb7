package compare

// Config holds comparison settings.
type Config struct {
	// ExportPrefix is the bucket prefix CSV exports are written under.
	ExportPrefix string `mapstructure:"export_prefix" default:"exports"`
	// IncludeHost compares Steam itself even when it is not selected.
	IncludeHost bool `mapstructure:"include_host" default:"false"`
}
