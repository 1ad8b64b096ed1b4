package main

import (
	"github.com/NVIDIA/kmodep/pkg/cli"
)

func main() {
	cli.Execute()
}
