package coach

// Config holds coaching request settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// MaxSubjects caps how many ranked subjects go into the prompt.
	MaxSubjects int
}

// DefaultConfig returns sensible defaults for coaching.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   600,
		Temperature: 0.4,
		MaxSubjects: 8,
	}
}
