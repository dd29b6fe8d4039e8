package llm

// modelTemperatures maps a model name to its fixed sampling temperature.
// Categorization wants near-deterministic output, so everything runs cold.
var modelTemperatures = map[string]float64{
	"gpt-4o":                     0.1,
	"gpt-4o-mini":                0.3,
	"gpt-4-turbo-preview":        0.3,
	"claude-3-5-sonnet-20241022": 0.2,
	"claude-3-opus-20240229":     0.2,
	"claude-3-haiku-20240307":    0.4,
	"gemini-2.5-pro":             0.2,
	"gemini-2.0-flash":           0.3,
}

// temperatureFor returns the fixed temperature for a model.
// Unknown models run at 0.
func temperatureFor(model string) float64 {
	return modelTemperatures[model]
}
