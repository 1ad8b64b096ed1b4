/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kmodep/pkg/header"
)

// ModulesReport is the output document of the modules command.
type ModulesReport struct {
	Header  *header.Header `json:"header" yaml:"header"`
	Kernel  string         `json:"kernel" yaml:"kernel"`
	Modules []string       `json:"modules" yaml:"modules"`
}

func modulesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "modules",
		EnableShellCompletion: true,
		Usage:                 "List modules available on disk for a kernel",
		Description: `List every module known to a kernel's dependency index, including
modules that appear only as dependencies of other modules.`,
		Flags: []cli.Flag{
			rootFlag,
			kernelFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			k, err := openKernel(ctx, cmd)
			if err != nil {
				return err
			}

			report := ModulesReport{
				Header:  newReportHeader(header.KindModuleList),
				Kernel:  k.Version,
				Modules: k.DiskModules(),
			}

			return writeReport(ctx, cmd, report)
		},
	}
}
