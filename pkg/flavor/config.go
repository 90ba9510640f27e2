package flavor

// Config holds all configuration options for the flavor-text renderer.
type Config struct {
	// TemplateDir is the directory templates are loaded from.
	TemplateDir string

	// Pattern selects template files inside TemplateDir, in doublestar syntax.
	// Every matching file becomes a template named by its slash-separated
	// path relative to TemplateDir.
	Pattern string

	// MaxSentences caps the count a template may pass to sentence.
	MaxSentences int

	// MaxWords caps the count a template may pass to blob.
	MaxWords int

	// MaxRepeat caps the count a template may pass to repeat.
	MaxRepeat int
}

// DefaultConfig returns a new Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		TemplateDir:  "./data/templates",
		Pattern:      "**/*.tmpl",
		MaxSentences: 50,
		MaxWords:     2000,
		MaxRepeat:    100,
	}
}
