package main

import (
	"fmt"
	"os"

	"github.com/TEL1N/pokemon-adb-bot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
