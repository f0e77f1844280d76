package questiongen

import "time"

// Config controls the behavior of the Dynamic generator.
type Config struct {
	// Validators run in order on every remote question. The first failure
	// sends the slot to the fallback catalog.
	Validators []Validator

	// RemoteTimeout bounds a single remote generation call. Expiry is
	// treated exactly like a service failure.
	RemoteTimeout time.Duration

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is the maximum number of prior questions
	// listed in the prompt for deduplication.
	MaxPriorQuestions int

	// MaxRecentAnswers is how many of the latest chosen options are
	// included in the prompt transcript.
	MaxRecentAnswers int

	// MaxFallbackAttempts is how many shifted facets the fallback path
	// tries before forcing uniqueness with a question-number suffix.
	MaxFallbackAttempts int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionsValidator{},
		},
		RemoteTimeout:       8 * time.Second,
		MaxTokens:           512,
		Temperature:         0.7,
		MaxPriorQuestions:   20,
		MaxRecentAnswers:    5,
		MaxFallbackAttempts: 5,
	}
}
