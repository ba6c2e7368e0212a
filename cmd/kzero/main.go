// @title           kzero proof service
// @version         1.0
// @description     Internal status surface for the zkLogin proof pipeline
// @host            localhost:9100
// @BasePath        /
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
