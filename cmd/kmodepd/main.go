package main

import (
	"flag"
	"log"

	"github.com/NVIDIA/kmodep/pkg/api"
)

func main() {
	root := flag.String("root", "/", "filesystem root to scan for kernel module trees")
	flag.Parse()

	if err := api.Serve(*root); err != nil {
		log.Fatal(err)
	}
}
