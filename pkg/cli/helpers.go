/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kmodep/pkg/errors"
	"github.com/NVIDIA/kmodep/pkg/header"
	"github.com/NVIDIA/kmodep/pkg/kernel"
	"github.com/NVIDIA/kmodep/pkg/modinfo"
	"github.com/NVIDIA/kmodep/pkg/serializer"
)

// newReportHeader builds the envelope stamped onto every CLI report.
func newReportHeader(kind header.Kind) *header.Header {
	h := &header.Header{}
	h.Init(kind, "v1", version)
	return h
}

// openKernel opens the kernel snapshot selected by the --kernel flag, or the
// newest installed kernel when the flag is empty.
func openKernel(ctx context.Context, cmd *cli.Command) (*kernel.Info, error) {
	root := cmd.String("root")
	lookup := kernel.WithLookup(modinfo.NewRunner().Lookup)

	if v := cmd.String("kernel"); v != "" {
		k, err := kernel.Open(root, v, lookup)
		if err != nil {
			return nil, err
		}
		if !k.IsValid() {
			return nil, errors.NewWithContext(errors.ErrCodeNotFound,
				"kernel version not found", map[string]any{"version": v})
		}
		return k, nil
	}

	kernels, err := kernel.List(ctx, root, lookup)
	if err != nil {
		return nil, err
	}
	if len(kernels) == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound,
			"no kernel module trees found", map[string]any{"root": root})
	}

	// List is sorted ascending; the newest kernel is last.
	return kernels[len(kernels)-1], nil
}

// writeReport serializes data per the --format and --output flags.
func writeReport(ctx context.Context, cmd *cli.Command, data any) error {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return fmt.Errorf("unknown output format: %q", outFormat)
	}

	s := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	if closer, ok := s.(serializer.Closer); ok {
		defer closer.Close()
	}

	return s.Serialize(ctx, data)
}
