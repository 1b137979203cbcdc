package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adrianpk/safeguard/internal/audit"
	"github.com/adrianpk/safeguard/internal/cli"
	"github.com/adrianpk/safeguard/internal/config"
	"github.com/adrianpk/safeguard/internal/hook"
	"github.com/adrianpk/safeguard/internal/policy"
)

const exitDenied = 2

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	code := 0
	root := rootCmd(&code)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return code
}

func rootCmd(code *int) *cobra.Command {
	root := &cobra.Command{
		Use:   "safeguard",
		Short: "Block destructive shell commands before an agent runs them",
		Long: `safeguard reads a proposed shell command as JSON on stdin and answers
with an allow/deny verdict on stdout. Force pushes, branch and tag deletion,
recursive deletes and disk overwrites are denied. Every decision is appended
to ~/.safeguard/audit.log.

Run without arguments as a beforeShellExecution hook.`,
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runHook(cmd)
			return nil
		},
	}

	root.AddCommand(checkCmd(code))
	root.AddCommand(rulesCmd())
	root.AddCommand(initCmd())
	return root
}

// runHook never fails: the host must always receive a verdict.
func runHook(cmd *cobra.Command) {
	var sink audit.Sink = audit.Discard
	if path, err := config.AuditLogPath(); err != nil {
		logger.Debug("audit log unavailable", "err", err)
	} else {
		sink = audit.NewFileSink(path)
	}

	svc := hook.NewService(policy.Default(), sink, hook.WithLogger(logger))
	if err := svc.Run(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		logger.Error("cannot emit verdict", "err", err)
	}
}

func checkCmd(code *int) *cobra.Command {
	return &cobra.Command{
		Use:   "check <command>...",
		Short: "Show the verdict for a command without logging it",
		Long: `Classify the given command and print the verdict the hook would return.
Arguments are joined with spaces. Exits 2 when the command would be denied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			allowed, err := cli.RunCheck(cmd.OutOrStdout(), policy.Default(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !allowed {
				*code = exitDenied
			}
			return nil
		},
	}
}

func rulesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the destructive-command rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunRules(cmd.OutOrStdout(), policy.Default(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", cli.FormatText, "output format: text or yaml")
	return cmd
}

func initCmd() *cobra.Command {
	var local, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Register safeguard as a beforeShellExecution hook",
		Long: `Add safeguard to the hooks file (~/.cursor/hooks.json, or .cursor/hooks.json
in the current directory with --local). Existing hooks are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.HooksPath(local)
			if err != nil {
				return fmt.Errorf("cannot resolve hooks file: %w", err)
			}
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("cannot resolve executable: %w", err)
			}
			return cli.RunInit(cmd.OutOrStdout(), path, exe, force)
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "install in the current directory instead of the home directory")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing safeguard entry")
	return cmd
}
