package config

// defaults returns the built-in configuration. Every key listed here can be
// overridden by the YAML file and by APP_ env vars.
func defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "text",

		"form.debounce":      "1s",
		"form.test_data":     false,
		"form.require_valid": false,
		"form.review_rounds": 1,
	}
}
