// SPDX-License-Identifier: MIT
//
// This is the entrypoint for the bnctl binary.
package main

import (
	"os"

	"github.com/arborbayes/bnkit/internal/bnctlcli"
)

func main() {
	os.Exit(bnctlcli.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
