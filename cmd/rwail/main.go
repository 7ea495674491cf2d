package main

import (
	"fmt"
	"os"

	"github.com/dottail/rwail/internal/rwailerr"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rwail: %v\n", err)
		os.Exit(rwailerr.ExitCode(err))
	}
}
