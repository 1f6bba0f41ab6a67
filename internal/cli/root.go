package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"office-locator-service/internal/config"
	"office-locator-service/internal/platform/obs"

	"github.com/spf13/cobra"
)

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout, stderr io.Writer) int {
	if deps.Config == nil {
		config.LoadDotEnv()
		cfg, err := config.Load(config.Get("CONFIG_PATH", ""))
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		deps.Config = &cfg
	}
	slog.SetDefault(obs.NewLogger(stderr, deps.Config.LogLevel))

	root := NewRootCommand(deps)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:           "officectl",
		Short:         "Rank service offices by distance and manage the office database.",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(newRankCommand(deps))
	root.AddCommand(newDBCommand(deps))

	return root
}

func currentConfig(deps Dependencies) config.Config {
	if deps.Config == nil {
		return config.Default()
	}
	return *deps.Config
}
