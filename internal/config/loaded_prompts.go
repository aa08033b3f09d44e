package config

import (
	"sync"
)

var (
	loadedPrompts   LoadedPrompts
	loadedPromptsMu sync.RWMutex
)

// LoadedPrompts holds the content of prompts loaded from files
type LoadedPrompts struct {
	SystemPrompt string
	UserPrompt   string
}

// GetLoadedPrompts returns a copy of the prompts loaded from files
func GetLoadedPrompts() LoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()
	return loadedPrompts
}

func setLoadedPrompts(p LoadedPrompts) {
	loadedPromptsMu.Lock()
	defer loadedPromptsMu.Unlock()
	loadedPrompts = p
}
