// Command reviwactl runs one-off administrative tasks against a Reviwa
// deployment.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
