// Advisor CLI - price checks and comparable properties from the terminal
//
// Usage:
//
//	advisor analyze --city "Andheri West" --price "1,25,00,000" --bedroom 2
//	advisor recommend --region Powai --region "Andheri West" --cap 6
//	advisor regions --region Powai --add Thane --remove Powai
package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
