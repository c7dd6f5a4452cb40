package config

import (
	"fmt"
	"strings"
)

var knownBackends = map[string]struct{}{
	"ollama": {},
	"openai": {},
	"gemini": {},
}

// Validate rejects configurations the app cannot act on: unknown backend
// names, an empty backend list, or hosted backends configured without keys.
func (c *Config) Validate() error {
	if len(c.Backends) == 0 {
		return fmt.Errorf("at least one backend must be configured")
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for _, name := range c.Backends {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if _, ok := knownBackends[normalized]; !ok {
			return fmt.Errorf("unknown backend %q (valid: ollama, openai, gemini)", name)
		}
		if _, dup := seen[normalized]; dup {
			return fmt.Errorf("backend %q listed twice", name)
		}
		seen[normalized] = struct{}{}
	}
	if _, ok := seen["openai"]; ok && c.OpenAI.APIKey == "" {
		return fmt.Errorf("backend openai is enabled but openai.api_key is empty")
	}
	if _, ok := seen["gemini"]; ok && c.Gemini.APIKey == "" {
		return fmt.Errorf("backend gemini is enabled but gemini.api_key is empty")
	}
	return nil
}
