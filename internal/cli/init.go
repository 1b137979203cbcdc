// Package cli provides CLI command implementations.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// HookEvent is the host event the guard is registered for.
const HookEvent = "beforeShellExecution"

const hooksVersion = 1

// RunInit registers command under HookEvent in the hooks file at path.
// Unrelated settings and hooks are preserved. An existing registration is
// left alone unless force is set, in which case it is replaced.
func RunInit(w io.Writer, path, command string, force bool) error {
	settings, err := loadHooksFile(path)
	if err != nil {
		return err
	}

	hooks, err := hooksMap(settings)
	if err != nil {
		return err
	}

	entries, err := eventEntries(hooks)
	if err != nil {
		return err
	}

	if idx := findEntry(entries, command); idx >= 0 {
		if !force {
			fmt.Fprintf(w, "Hook already installed: %s\n", path)
			return nil
		}
		entries = append(entries[:idx], entries[idx+1:]...)
	}

	entries = append(entries, map[string]any{"command": command})
	hooks[HookEvent] = entries
	settings["hooks"] = hooks
	if _, ok := settings["version"]; !ok {
		settings["version"] = hooksVersion
	}

	if err := writeHooksFile(path, settings); err != nil {
		return err
	}

	fmt.Fprintf(w, "Installed hook in %s\n", path)
	return nil
}

func loadHooksFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read hooks file: %w", err)
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("cannot parse hooks file: %w", err)
	}
	if settings == nil {
		settings = map[string]any{}
	}
	return settings, nil
}

func hooksMap(settings map[string]any) (map[string]any, error) {
	raw, ok := settings["hooks"]
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	hooks, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid hooks format: expected object, got %T", raw)
	}
	return hooks, nil
}

func eventEntries(hooks map[string]any) ([]any, error) {
	raw, ok := hooks[HookEvent]
	if !ok || raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid %s format: expected array, got %T", HookEvent, raw)
	}
	return entries, nil
}

func findEntry(entries []any, command string) int {
	for i, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if c, _ := m["command"].(string); c == command {
			return i
		}
	}
	return -1
}

func writeHooksFile(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create hooks directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode hooks file: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write hooks file: %w", err)
	}
	return nil
}
