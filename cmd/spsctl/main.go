// Command spsctl monitors and commands an SPS vacuum pumping station, and
// runs a simulated controller for bench tests.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
