package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	var loaded LoadedPrompts
	prompts := c.Semantic.Prompts

	if prompts.SystemPromptFile != "" {
		content, err := loadPromptFromFile(prompts.SystemPromptFile, "system")
		if err != nil {
			return err
		}
		loaded.SystemPrompt = content
	}
	if prompts.UserPromptFile != "" {
		content, err := loadPromptFromFile(prompts.UserPromptFile, "user")
		if err != nil {
			return err
		}
		loaded.UserPrompt = content
	}

	setLoadedPrompts(loaded)

	switch {
	case loaded.SystemPrompt == "" && loaded.UserPrompt == "":
		log.Println("[CONFIG] No custom prompt files - using inline or built-in prompts")
	default:
		log.Printf("[CONFIG] Custom prompt files loaded (system: %t, user: %t)",
			loaded.SystemPrompt != "", loaded.UserPrompt != "")
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", promptType, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s prompt file not found: %s", promptType, absPath)
		}
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", promptType, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", promptType, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s prompt from file: %s (%d characters)", promptType, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptFiles validates that prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType string) {
		if filePath == "" {
			return
		}
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s prompt: %s", promptType, filePath))
			return
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s prompt file not found: %s", promptType, absPath))
		}
	}

	validateFile(c.Semantic.Prompts.SystemPromptFile, "system")
	validateFile(c.Semantic.Prompts.UserPromptFile, "user")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}
