package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "Test system prompt for semantic matching"
	userPromptContent := "Resume:\n{{resume}}\nJob:\n{{job}}"

	systemPromptFile := filepath.Join(tempDir, "system.md")
	userPromptFile := filepath.Join(tempDir, "user.md")

	if err := os.WriteFile(systemPromptFile, []byte(systemPromptContent+"\n\n"), 0600); err != nil {
		t.Fatalf("Failed to create test system prompt file: %v", err)
	}
	if err := os.WriteFile(userPromptFile, []byte(userPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test user prompt file: %v", err)
	}

	config := &Config{
		Semantic: SemanticConfig{
			Prompts: PromptConfig{
				SystemPrompt:     "inline system prompt",
				SystemPromptFile: systemPromptFile,
				UserPromptFile:   userPromptFile,
			},
		},
	}
	t.Cleanup(func() { setLoadedPrompts(LoadedPrompts{}) })

	if err := config.validatePromptFiles(); err != nil {
		t.Fatalf("Prompt file validation failed: %v", err)
	}
	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	loaded := GetLoadedPrompts()
	if loaded.SystemPrompt != systemPromptContent {
		t.Errorf("Expected loaded system prompt '%s', got '%s'", systemPromptContent, loaded.SystemPrompt)
	}
	if loaded.UserPrompt != userPromptContent {
		t.Errorf("Expected loaded user prompt '%s', got '%s'", userPromptContent, loaded.UserPrompt)
	}

	// Files win over inline prompts.
	sem := config.GetSemanticConfig()
	if sem.Prompts.SystemPrompt != systemPromptContent {
		t.Errorf("Expected file prompt to override inline prompt, got '%s'", sem.Prompts.SystemPrompt)
	}

	if config.Semantic.Prompts.SystemPromptFile != systemPromptFile {
		t.Error("Expected system prompt file path to be preserved")
	}
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()

	validFile := filepath.Join(tempDir, "valid.md")
	if err := os.WriteFile(validFile, []byte("Valid content"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	config := &Config{Semantic: SemanticConfig{Prompts: PromptConfig{SystemPromptFile: validFile}}}
	if err := config.validatePromptFiles(); err != nil {
		t.Errorf("Expected validation to pass for valid file, got: %v", err)
	}

	config.Semantic.Prompts.UserPromptFile = filepath.Join(tempDir, "nonexistent.md")
	if err := config.validatePromptFiles(); err == nil {
		t.Error("Expected validation to fail for non-existent file")
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()

	content := "Test prompt content"
	testFile := filepath.Join(tempDir, "test.md")
	if err := os.WriteFile(testFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loadedContent, err := loadPromptFromFile(testFile, "system")
	if err != nil {
		t.Fatalf("Failed to load prompt from file: %v", err)
	}
	if loadedContent != content {
		t.Errorf("Expected content '%s', got '%s'", content, loadedContent)
	}

	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte("  \n"), 0600); err != nil {
		t.Fatalf("Failed to create empty test file: %v", err)
	}
	if _, err := loadPromptFromFile(emptyFile, "system"); err == nil {
		t.Error("Expected error for empty file")
	}

	if _, err := loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}
