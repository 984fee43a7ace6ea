package bnctlcli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arborbayes/bnkit/substitution"
)

// treeFile/alignmentFile are the CLI's own on-disk formats: substitution.Tree
// itself takes in-memory PhyloTree/Alignment values, file parsing is bnctl's
// concern, not the core's (spec.md §1 excludes tree/alignment file I/O from
// the core, naming it an external collaborator; bnctlcli is that collaborator
// for this façade).
type treeFile struct {
	Name         string      `json:"name"`
	BranchLength float64     `json:"branchLength"`
	Children     []*treeFile `json:"children"`
}

func (t *treeFile) toNode() *substitution.PhyloNode {
	n := &substitution.PhyloNode{Name: t.Name, BranchLength: t.BranchLength}
	for _, c := range t.Children {
		n.Children = append(n.Children, c.toNode())
	}
	return n
}

func loadTree(path string) (*substitution.PhyloTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root treeFile
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	tree := &substitution.PhyloTree{Root: root.toNode()}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree, nil
}

func loadAlignment(path string) (*substitution.Alignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seqs map[string][]string
	if err := json.Unmarshal(data, &seqs); err != nil {
		return nil, err
	}
	return substitution.NewAlignment(seqs)
}

func newReconstructCommand(log *zap.SugaredLogger, configPath *string) *cobra.Command {
	var (
		treePath      string
		alignmentPath string
		modelName     string
		mode          string
		marginalNode  string
		gapPolicy     string
		concurrency   int
	)

	cmd := &cobra.Command{
		Use:   "reconstruct",
		Short: "run ancestral sequence reconstruction over an alignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return withExitCode(ExitIOFailure, err)
			}
			if treePath == "" {
				return withExitCode(ExitMissingTree, fmt.Errorf("--tree is required"))
			}
			if alignmentPath == "" {
				return withExitCode(ExitMissingAlignment, fmt.Errorf("--alignment is required"))
			}
			if modelName == "" {
				return withExitCode(ExitMissingModelName, fmt.Errorf("--model is required"))
			}

			tree, err := loadTree(treePath)
			if err != nil {
				return withExitCode(ExitIOFailure, err)
			}
			alignment, err := loadAlignment(alignmentPath)
			if err != nil {
				return withExitCode(ExitIOFailure, err)
			}

			if concurrency < 1 {
				return withExitCode(ExitUnknownArgument, fmt.Errorf("--concurrency must be >= 1"))
			}
			opts := []substitution.Option{substitution.WithConcurrency(concurrency)}
			switch mode {
			case "joint", "":
				opts = append(opts, substitution.WithMode(substitution.ModeJoint))
			case "marginal":
				if marginalNode == "" {
					return withExitCode(ExitUnknownArgument, fmt.Errorf("--marginal-node is required when --mode=marginal"))
				}
				opts = append(opts, substitution.WithMarginalNode(marginalNode))
			default:
				return withExitCode(ExitUnknownArgument, fmt.Errorf("unknown mode %q", mode))
			}
			switch gapPolicy {
			case "missing", "":
				opts = append(opts, substitution.WithGapPolicy(substitution.GapAsMissing))
			case "model":
				opts = append(opts, substitution.WithGapPolicy(substitution.GapAsModel))
			default:
				return withExitCode(ExitUnknownArgument, fmt.Errorf("unknown gap policy %q", gapPolicy))
			}

			res, err := substitution.Reconstruct(cmd.Context(), tree, alignment, cfg.resolveModel(modelName), opts...)
			if err != nil {
				return withExitCode(ExitUnknownModel, err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "path to a JSON phylogenetic tree file")
	cmd.Flags().StringVar(&alignmentPath, "alignment", "", "path to a JSON alignment file")
	cmd.Flags().StringVar(&modelName, "model", "", "substitution model name: JTT|Dayhoff|LG|WAG|Yang|GLOOME1|Gap")
	cmd.Flags().StringVar(&mode, "mode", "joint", "joint|marginal")
	cmd.Flags().StringVar(&marginalNode, "marginal-node", "", "ancestor node name to report a posterior for under --mode=marginal")
	cmd.Flags().StringVar(&gapPolicy, "gap", "missing", "missing|model")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "alignment columns to process concurrently")
	return cmd
}
