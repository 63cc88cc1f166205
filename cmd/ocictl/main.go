package main

import (
	"os"

	"github.com/hsiuhsiu/oci-go/cmd/ocictl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
