package logging

// Config is the "logging" extension section of specpreview.yml:
//
//	logging:
//	  level: debug
//	  file:
//	    path: ~/specpreview.log
//	  format:
//	    preset: simple
//
// SPECPREVIEW_LOG_LEVEL and SPECPREVIEW_LOG_CALLER=true take precedence over
// level and report_caller.
type Config struct {
	Level        string         `yaml:"level"`
	ReportCaller bool           `yaml:"report_caller"`
	File         FileSinkConfig `yaml:"file"`
	Format       FormatConfig   `yaml:"format"`
}

// FileSinkConfig controls the log file. By default every component appends
// to <state dir>/logs/<component>-<date>.log.
type FileSinkConfig struct {
	Disabled bool `yaml:"disabled"`
	// Path replaces the per-component files with one shared file.
	Path string `yaml:"path"`
}

// FormatConfig controls the text layout.
type FormatConfig struct {
	// Preset is "default", "simple" (no timestamp or component) or "json".
	Preset           string `yaml:"preset"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	DisableComponent bool   `yaml:"disable_component"`
	// StructuredToStderr is "auto" (stderr when debugging or when stderr is
	// not a terminal), "always" or "never".
	StructuredToStderr string `yaml:"structured_to_stderr"`
}
