// Command signerd is the local signing broker and wallet CLI.
//
// @title        Local Signer Broker API
// @version      1.0
// @description  Loopback broker for signing sessions and browser wallet provisioning.
// @BasePath     /
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errNotSubmitted) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
