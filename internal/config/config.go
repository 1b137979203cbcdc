// Package config resolves the fixed locations safeguard reads and writes.
// The guard has no user configuration: its rules and log location are
// built in.
package config

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	appDir       = ".safeguard"
	auditLogName = "audit.log"
	hostDir      = ".cursor"
	hooksName    = "hooks.json"
)

// AuditLogPath returns the path of the append-only audit log.
func AuditLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if home == "" {
		return "", errors.New("home directory is empty")
	}
	return filepath.Join(home, appDir, auditLogName), nil
}

// HooksPath returns the hooks file the guard is registered in.
// Local resolves against the working directory, otherwise the home directory.
func HooksPath(local bool) (string, error) {
	if local {
		return localHooksPath()
	}
	return globalHooksPath()
}

func globalHooksPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, hostDir, hooksName), nil
}

func localHooksPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, hostDir, hooksName), nil
}
