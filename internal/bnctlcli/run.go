package bnctlcli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arborbayes/bnkit/builder"
	"github.com/arborbayes/bnkit/gibbs"
	"github.com/arborbayes/bnkit/inference"
	"github.com/arborbayes/bnkit/network"
)

// newFixture resolves a builder.Constructor by name. bnctl has no network
// file format of its own (parsing external model files is the file-I/O
// Non-goal spec.md §1 excludes), so "run" exercises the engine against the
// builder package's own fixtures, the same role FeatureBaseDB-featurebase's
// CLI "sample data" commands play against its storage engine.
func newFixture(name string) (builder.Constructor, error) {
	switch name {
	case "burglary":
		return builder.BurglaryNetwork(), nil
	case "chain":
		return builder.Chain(5, 2), nil
	case "naivebayes":
		return builder.NaiveBayes(4, 3), nil
	case "tree":
		return builder.Tree(2, 2, 2), nil
	case "randomdag":
		return builder.RandomDAG(8, 2), nil
	default:
		return nil, fmt.Errorf("unknown fixture %q", name)
	}
}

func newRunCommand(log *zap.SugaredLogger, configPath *string) *cobra.Command {
	var (
		fixture   string
		evidence  []string
		query     []string
		mode      string
		gibbsMode bool
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "build a fixture network and run a single query against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(*configPath); err != nil {
				return withExitCode(ExitIOFailure, err)
			}
			if fixture == "" {
				return withExitCode(ExitMissingModelName, fmt.Errorf("--fixture is required"))
			}
			if len(query) == 0 {
				return withExitCode(ExitMissingQueryArg, fmt.Errorf("--query is required"))
			}
			cons, err := newFixture(fixture)
			if err != nil {
				return withExitCode(ExitUnknownModel, err)
			}
			net, err := builder.BuildNetwork(nil, cons)
			if err != nil {
				return withExitCode(ExitUnknownArgument, err)
			}
			if err := applyEvidence(net, evidence); err != nil {
				return withExitCode(ExitUnknownArgument, err)
			}
			if err := net.Compile(); err != nil {
				return withExitCode(ExitUnknownArgument, err)
			}

			out := cmd.OutOrStdout()
			if gibbsMode {
				return runGibbsQuery(out, net, query[0], seed)
			}
			return runExactQuery(out, net, query, mode)
		},
	}
	cmd.Flags().StringVar(&fixture, "fixture", "", "fixture name: burglary|chain|naivebayes|tree|randomdag")
	cmd.Flags().StringSliceVar(&evidence, "evidence", nil, "var=value pairs, repeatable")
	cmd.Flags().StringSliceVar(&query, "query", nil, "query variable name(s)")
	cmd.Flags().StringVar(&mode, "mode", "marginal", "marginal|mpe|loglikelihood")
	cmd.Flags().BoolVar(&gibbsMode, "gibbs", false, "estimate the marginal via Gibbs sampling instead of exact elimination")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for --gibbs")
	return cmd
}

func applyEvidence(net *network.Network, pairs []string) error {
	for _, p := range pairs {
		var name, val string
		n, err := fmt.Sscanf(p, "%s", &name)
		_ = n
		if err != nil {
			return fmt.Errorf("bad evidence %q", p)
		}
		idx := indexOfByte(p, '=')
		if idx < 0 {
			return fmt.Errorf("evidence %q must be var=value", p)
		}
		name, val = p[:idx], p[idx+1:]
		if err := net.SetEvidence(name, val); err != nil {
			return err
		}
	}
	return nil
}

func indexOfByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func runExactQuery(out interface{ Write([]byte) (int, error) }, net *network.Network, query []string, mode string) error {
	drv, err := inference.NewDriver(net)
	if err != nil {
		return withExitCode(ExitUnknownArgument, err)
	}
	switch mode {
	case "marginal":
		f, err := drv.Marginal(query...)
		if err != nil {
			return withExitCode(ExitUnknownArgument, err)
		}
		fmt.Fprintf(out, "%v\n", f.VarNames())
		for idx := 0; idx < f.Size(); idx++ {
			fmt.Fprintf(out, "%d -> %g\n", idx, f.ValueAt(idx))
		}
	case "mpe":
		assignment, weight, err := drv.MPE(query...)
		if err != nil {
			return withExitCode(ExitUnknownArgument, err)
		}
		fmt.Fprintf(out, "%v weight=%g\n", assignment, weight)
	case "loglikelihood":
		ll, err := drv.LogLikelihood()
		if err != nil {
			return withExitCode(ExitUnknownArgument, err)
		}
		fmt.Fprintf(out, "%g\n", ll)
	default:
		return withExitCode(ExitUnknownArgument, fmt.Errorf("unknown mode %q", mode))
	}
	return nil
}

func runGibbsQuery(out interface{ Write([]byte) (int, error) }, net *network.Network, query string, seed int64) error {
	s, err := gibbs.NewSampler(net, seed)
	if err != nil {
		return withExitCode(ExitUnknownArgument, err)
	}
	dist, err := s.EstimateMarginal(query, gibbs.ConvergenceConfig{
		Mode:        gibbs.PerQueryCount,
		SampleCount: 2000,
		BurnIn:      200,
	})
	if err != nil {
		return withExitCode(ExitUnknownArgument, err)
	}
	fmt.Fprintf(out, "%v\n", dist)
	return nil
}
