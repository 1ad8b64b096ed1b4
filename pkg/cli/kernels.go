/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kmodep/pkg/header"
	"github.com/NVIDIA/kmodep/pkg/kernel"
)

// KernelSummary describes one installed kernel in the kernels report.
type KernelSummary struct {
	Version     string `json:"version" yaml:"version"`
	Path        string `json:"path" yaml:"path"`
	DepPath     string `json:"depPath" yaml:"depPath"`
	Extension   string `json:"extension" yaml:"extension"`
	ModuleCount int    `json:"moduleCount" yaml:"moduleCount"`
}

// KernelsReport is the output document of the kernels command.
type KernelsReport struct {
	Header  *header.Header  `json:"header" yaml:"header"`
	Kernels []KernelSummary `json:"kernels" yaml:"kernels"`
}

func kernelsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "kernels",
		EnableShellCompletion: true,
		Usage:                 "List installed kernel module trees",
		Description: `Scan the filesystem root for kernel module trees and list every
version that has a valid module directory and dependency index.`,
		Flags: []cli.Flag{
			rootFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kernels, err := kernel.List(ctx, cmd.String("root"))
			if err != nil {
				return err
			}

			report := KernelsReport{
				Header:  newReportHeader(header.KindKernelList),
				Kernels: make([]KernelSummary, 0, len(kernels)),
			}

			for _, k := range kernels {
				report.Kernels = append(report.Kernels, KernelSummary{
					Version:     k.Version,
					Path:        k.Path(),
					DepPath:     k.DepPath(),
					Extension:   k.Extension(),
					ModuleCount: k.ModuleCount(),
				})
			}

			return writeReport(ctx, cmd, report)
		},
	}
}
