package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/adrianpk/safeguard/internal/audit"
	"github.com/adrianpk/safeguard/internal/hook"
	"github.com/adrianpk/safeguard/internal/policy"
)

// RunCheck classifies command without touching the audit log and writes
// the verdict the hook would return. It reports whether the command is allowed.
func RunCheck(w io.Writer, p *policy.Policy, command string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"command": command})
	if err != nil {
		return false, fmt.Errorf("cannot encode command: %w", err)
	}

	out := hook.NewService(p, audit.Discard).Handle(payload)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return false, fmt.Errorf("cannot write verdict: %w", err)
	}
	return out.Permission == hook.PermissionAllow, nil
}
