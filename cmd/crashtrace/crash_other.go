//go:build !unix

package main

import (
	"fmt"
	"os"
)

func crashCommand(args []string) {
	fmt.Fprintln(os.Stderr, "the crash command needs a unix platform")
	os.Exit(1)
}
