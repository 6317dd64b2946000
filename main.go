package main

import (
	"fmt"
	"os"

	"github.com/liuzenghui2007/extract-images/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[extract-images] error: %v\n", err)
		os.Exit(1)
	}
}
