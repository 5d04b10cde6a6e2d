/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/securekey/fabric-ccdeploy/internal/cmd/chaincode"
)

// The main command describes the service and
// defaults to printing the help message.
var mainCmd = &cobra.Command{
	Use:           "ccdeploy",
	Short:         "Install, instantiate or upgrade, and invoke chaincode on a Fabric network.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	mainCmd.AddCommand(chaincode.Cmd(nil))

	if err := mainCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
