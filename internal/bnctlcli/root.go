package bnctlcli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arborbayes/bnkit/internal/telemetry"
)

// Execute parses args against the bnctl command tree and runs the matched
// command, writing to stdout/stderr, and returns a process exit code from
// spec.md §6's table. cmd/bnctl/main.go's only job is to call this and pass
// the result to os.Exit, the same split FeatureBaseDB-featurebase's cmd/
// package uses between its command tree and main.go.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	zl, err := zap.NewProduction()
	if err != nil {
		zl = zap.NewNop()
	}
	telemetry.Set(zl)
	defer zl.Sync()
	log := zl.Sugar()

	root := newRootCommand(log)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	runErr := root.Execute()
	if runErr == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(runErr, &ee) {
		log.Errorw("command failed", "error", ee.err)
		return ee.code
	}
	// cobra's own parsing errors (unknown flag, unknown subcommand, wrong
	// arg count) never go through withExitCode.
	log.Errorw("command failed", "error", runErr)
	return ExitUnknownArgument
}

func newRootCommand(log *zap.SugaredLogger) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "bnctl",
		Short:         "bnctl drives the bnkit Bayesian-network engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newRunCommand(log, &configPath))
	root.AddCommand(newReconstructCommand(log, &configPath))
	root.AddCommand(newServeCommand(log, &configPath))
	root.AddCommand(newVersionCommand())
	return root
}
