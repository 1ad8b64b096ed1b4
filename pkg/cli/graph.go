/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kmodep/pkg/depgraph"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:                  "graph",
		EnableShellCompletion: true,
		Usage:                 "Render module dependency closures as Graphviz DOT",
		ArgsUsage:             "module [module...]",
		Description: `Build a directed dependency graph for the given modules and write it
in Graphviz DOT format, suitable for piping into dot:

  kmodep graph nfs ext4 | dot -Tsvg -o deps.svg`,
		Flags: []cli.Flag{
			rootFlag,
			kernelFlag,
			outputFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			modules := cmd.Args().Slice()
			if len(modules) == 0 {
				return fmt.Errorf("at least one module argument is required")
			}

			k, err := openKernel(ctx, cmd)
			if err != nil {
				return err
			}

			g, err := depgraph.Build(ctx, k, modules)
			if err != nil {
				return err
			}

			out := os.Stdout
			if path := cmd.String("output"); path != "" {
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file %q: %w", path, err)
				}
				defer file.Close()
				out = file
			}

			return depgraph.WriteDOT(g, out)
		},
	}
}
