// Package cli implements the kmodep command-line interface.
//
// # Overview
//
// kmodep inspects Linux kernel module dependency metadata. It parses the
// modules.dep index of installed kernels, resolves fuzzy module names, and
// computes transitive dependency closures.
//
// # Commands
//
// kernels - list installed kernel module trees:
//
//	kmodep kernels [--root DIR] [--format json|yaml|table]
//
// modules - list modules available on disk for a kernel:
//
//	kmodep modules --kernel 6.8.0-49-generic
//
// deps - compute transitive dependency closures:
//
//	kmodep deps ext4 nfs [--merge] [--loaded]
//
// loaded - show the live module table:
//
//	kmodep loaded
//
// graph - render closures as Graphviz DOT:
//
//	kmodep graph nfs | dot -Tsvg -o deps.svg
//
// # Global Flags
//
//	--root         Filesystem root to scan (default: /)
//	--kernel, -k   Kernel version (default: newest installed)
//	--output, -o   Output file path (default: stdout)
//	--format       Output format: json, yaml, table (default: json)
//	--log-level    Logging verbosity (debug, info, warn, error)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/kmodep/pkg/cli.version=1.0.0'"
package cli
