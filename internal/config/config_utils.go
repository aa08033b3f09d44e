package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applySemanticKeyFallback()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) > 0 {
		return
	}
	if apiKeysEnv := os.Getenv("ATSCHECK_SERVER_APIKEYS"); apiKeysEnv != "" {
		c.Server.APIKeys = splitKeys(apiKeysEnv)
	}
}

// applySemanticKeyFallback honours the key name most Gemini tooling exports.
func (c *Config) applySemanticKeyFallback() {
	if c.Semantic.APIKey == "" {
		c.Semantic.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "" {
		c.Server.TLS.Mode = "disabled"
	}
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// maskSecret keeps enough of a key to tell two keys apart in logs.
func maskSecret(s string) string {
	switch {
	case len(s) > 8:
		return s[:4] + "****" + s[len(s)-4:]
	case s != "":
		return "****"
	default:
		return ""
	}
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"ATSCHECK_SEMANTIC_ENABLED",
		"ATSCHECK_SEMANTIC_APIKEY",
		"ATSCHECK_SEMANTIC_MODEL",
		"ATSCHECK_SERVER_PORT",
		"ATSCHECK_SERVER_HOST",
		"ATSCHECK_APP_LOGLEVEL",
		"ATSCHECK_VAULT_ENABLED",
		"GEMINI_API_KEY",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if strings.Contains(strings.ToLower(envVar), "key") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Semantic Matching: %t (provider %s, model %s)", c.Semantic.Enabled, c.Semantic.Provider, c.Semantic.Model)
	if c.Semantic.APIKey != "" {
		log.Println("[CONFIG] Semantic API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] Semantic API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Confirmations File: %s", c.Analysis.ConfirmationsFile)
	log.Printf("[CONFIG] Server: %s:%s (TLS %s)", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}
