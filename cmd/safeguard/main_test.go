package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binaryPath string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "safeguard-test")
	if err != nil {
		os.Exit(1)
	}

	binaryPath = filepath.Join(dir, "safeguard")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = "."
	if err := cmd.Run(); err != nil {
		os.RemoveAll(dir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type result struct {
	stdout   string
	stderr   string
	exitCode int
}

func runSafeguard(t *testing.T, home, input string, args ...string) result {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Stdin = bytes.NewBufferString(input)
	cmd.Env = append(os.Environ(), "HOME="+home)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("cannot run binary: %v", err)
	}

	return result{stdout: outBuf.String(), stderr: errBuf.String(), exitCode: exitCode}
}

func makeInput(command string) string {
	data, _ := json.Marshal(map[string]interface{}{
		"command":         command,
		"cwd":             "/repo",
		"hook_event_name": "beforeShellExecution",
	})
	return string(data)
}

type verdict struct {
	Continue     bool   `json:"continue"`
	Permission   string `json:"permission"`
	UserMessage  string `json:"user_message"`
	AgentMessage string `json:"agent_message"`
}

func parseVerdict(t *testing.T, stdout string) verdict {
	t.Helper()
	if !strings.HasSuffix(stdout, "\n") || strings.Count(stdout, "\n") != 1 {
		t.Fatalf("stdout %q is not a single newline-terminated line", stdout)
	}
	var v verdict
	if err := json.Unmarshal([]byte(stdout), &v); err != nil {
		t.Fatalf("cannot parse output: %v", err)
	}
	if !v.Continue {
		t.Error("continue should always be true")
	}
	return v
}

func readAuditLog(t *testing.T, home string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(home, ".safeguard", "audit.log"))
	if err != nil {
		t.Fatalf("cannot read audit log: %v", err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestSafeguardBlocksDestructiveCommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
	}{
		{"force push", "git push origin --force"},
		{"refspec deletion", "git push origin :feature-branch"},
		{"recursive delete", "rm -rf /tmp/build"},
		{"api delete", "gh api -X DELETE /repos/org/repo/git/refs/heads/main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			res := runSafeguard(t, home, makeInput(tt.cmd))

			if res.exitCode != 0 {
				t.Errorf("expected exit 0, got %d (stderr: %s)", res.exitCode, res.stderr)
			}

			v := parseVerdict(t, res.stdout)
			if v.Permission != "deny" {
				t.Errorf("expected deny, got %s", v.Permission)
			}
			if !strings.Contains(v.UserMessage, tt.cmd) {
				t.Errorf("user_message %q does not contain the command", v.UserMessage)
			}
			if v.AgentMessage == "" {
				t.Error("expected agent_message")
			}

			lines := readAuditLog(t, home)
			if len(lines) != 1 || !strings.HasSuffix(lines[0], "BLOCKED: '"+tt.cmd+"'") {
				t.Errorf("audit log = %q", lines)
			}
		})
	}
}

func TestSafeguardAllowsSafeCommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
	}{
		{"status", "git status"},
		{"single force delete", "rm -f file.txt"},
		{"tests", "go test ./..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			res := runSafeguard(t, home, makeInput(tt.cmd))

			if res.exitCode != 0 {
				t.Errorf("expected exit 0, got %d (stderr: %s)", res.exitCode, res.stderr)
			}

			v := parseVerdict(t, res.stdout)
			if v.Permission != "allow" {
				t.Errorf("expected allow, got %s", v.Permission)
			}
			if v.UserMessage != "" || v.AgentMessage != "" {
				t.Errorf("allow verdict carries messages: %+v", v)
			}

			lines := readAuditLog(t, home)
			if len(lines) != 1 || !strings.HasSuffix(lines[0], "ALLOWED: '"+tt.cmd+"'") {
				t.Errorf("audit log = %q", lines)
			}
		})
	}
}

func TestSafeguardMissingCommand(t *testing.T) {
	home := t.TempDir()
	res := runSafeguard(t, home, `{"cwd":"/repo"}`)

	if v := parseVerdict(t, res.stdout); v.Permission != "allow" {
		t.Errorf("expected allow, got %s", v.Permission)
	}

	lines := readAuditLog(t, home)
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "ALLOWED: ''") {
		t.Errorf("audit log = %q", lines)
	}
}

func TestSafeguardInvalidJSON(t *testing.T) {
	home := t.TempDir()
	res := runSafeguard(t, home, "not json")

	if res.exitCode != 0 {
		t.Errorf("expected exit 0 for invalid JSON, got %d", res.exitCode)
	}
	if v := parseVerdict(t, res.stdout); v.Permission != "allow" {
		t.Errorf("expected allow for invalid JSON, got %s", v.Permission)
	}

	lines := readAuditLog(t, home)
	if len(lines) != 1 || !strings.Contains(lines[0], "] ERROR: '") {
		t.Errorf("audit log = %q", lines)
	}
}

func TestSafeguardEmptyInput(t *testing.T) {
	res := runSafeguard(t, t.TempDir(), "")

	if res.exitCode != 0 {
		t.Errorf("expected exit 0 for empty input, got %d", res.exitCode)
	}
	if v := parseVerdict(t, res.stdout); v.Permission != "allow" {
		t.Errorf("expected allow for empty input, got %s", v.Permission)
	}
}

func TestSafeguardUnwritableAuditLog(t *testing.T) {
	home := t.TempDir()
	// A file where the log directory should be makes every append fail.
	if err := os.WriteFile(filepath.Join(home, ".safeguard"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	for _, cmd := range []string{"git push origin --force", "git status"} {
		failing := runSafeguard(t, home, makeInput(cmd))
		working := runSafeguard(t, t.TempDir(), makeInput(cmd))

		if failing.exitCode != 0 {
			t.Errorf("expected exit 0, got %d", failing.exitCode)
		}
		if failing.stdout != working.stdout {
			t.Errorf("verdict changed when audit log is unwritable:\n got %s\nwant %s", failing.stdout, working.stdout)
		}
	}
}

func TestSafeguardIgnoresUnknownArguments(t *testing.T) {
	res := runSafeguard(t, t.TempDir(), makeInput("rm -rf /"), "--hook", "extra")

	if res.exitCode != 0 {
		t.Errorf("expected exit 0, got %d (stderr: %s)", res.exitCode, res.stderr)
	}
	if v := parseVerdict(t, res.stdout); v.Permission != "deny" {
		t.Errorf("expected deny, got %s", v.Permission)
	}
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		args     []string
		wantCode int
	}{
		{[]string{"check", "git", "status"}, 0},
		{[]string{"check", "git push origin --force"}, 2},
		{[]string{"check", "--", "rm", "-rf", "/tmp/build"}, 2},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			home := t.TempDir()
			res := runSafeguard(t, home, "", tt.args...)

			if res.exitCode != tt.wantCode {
				t.Errorf("expected exit %d, got %d (stderr: %s)", tt.wantCode, res.exitCode, res.stderr)
			}
			if _, err := os.Stat(filepath.Join(home, ".safeguard", "audit.log")); !os.IsNotExist(err) {
				t.Error("check should not write the audit log")
			}
		})
	}
}

func TestRulesCommand(t *testing.T) {
	res := runSafeguard(t, t.TempDir(), "", "rules", "--format", "yaml")

	if res.exitCode != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", res.exitCode, res.stderr)
	}
	if !strings.Contains(res.stdout, "name: git-push-force") {
		t.Errorf("rules output missing git-push-force:\n%s", res.stdout)
	}
}

func TestInitCommand(t *testing.T) {
	home := t.TempDir()
	res := runSafeguard(t, home, "", "init")

	if res.exitCode != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", res.exitCode, res.stderr)
	}

	data, err := os.ReadFile(filepath.Join(home, ".cursor", "hooks.json"))
	if err != nil {
		t.Fatalf("hooks file not written: %v", err)
	}
	if !strings.Contains(string(data), "beforeShellExecution") {
		t.Errorf("hooks file missing event:\n%s", data)
	}
}
