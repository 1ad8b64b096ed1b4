/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kmodep/pkg/header"
	"github.com/NVIDIA/kmodep/pkg/lsmod"
)

// LoadedReport is the output document of the loaded command.
type LoadedReport struct {
	Header  *header.Header `json:"header" yaml:"header"`
	Modules []lsmod.Module `json:"modules" yaml:"modules"`
}

func loadedCmd() *cli.Command {
	return &cli.Command{
		Name:                  "loaded",
		EnableShellCompletion: true,
		Usage:                 "Show the currently loaded kernel modules",
		Description: `Read the kernel's live module table and report each loaded module
with its memory size, reference count, dependent modules, and load address.`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mods, err := lsmod.Read()
			if err != nil {
				return err
			}

			report := LoadedReport{
				Header:  newReportHeader(header.KindLoadedModules),
				Modules: mods,
			}

			return writeReport(ctx, cmd, report)
		},
	}
}
