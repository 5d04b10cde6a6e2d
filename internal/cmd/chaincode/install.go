/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/securekey/fabric-ccdeploy/pkg/client/resmgmt"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

const (
	ccNameFlag         = "cc-name"
	ccVersionFlag      = "cc-version"
	ccTypeFlag         = "cc-type"
	srcDirFlag         = "src-dir"
	channelFlag        = "channel"
	orgCredentialsFlag = "org-credentials"
	skipInstalledFlag  = "skip-installed"
)

func installCmd(env *environment) *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install chaincode on the organization's peers joined to the channel.",
		Long:  "Package the chaincode source and install it on the organization's peers joined to the channel.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.install(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String(ccNameFlag, "", "Name of the chaincode")
	flags.String(ccVersionFlag, "", "Version of the chaincode")
	flags.String(srcDirFlag, "", "Chaincode source: relative to $GOPATH/src for golang, the project directory otherwise")
	flags.String(channelFlag, "", "Channel whose peers the chaincode is installed on")
	flags.String(ccTypeFlag, fab.Golang.String(), "Language the chaincode is written in: golang, node or java")
	flags.String(orgCredentialsFlag, "", "Path to the organization admin's credentials file")
	flags.Bool(skipInstalledFlag, false, "Skip peers that already have this chaincode version installed")
	bindFlags(v, flags)

	return cmd
}

func (env *environment) install(cmd *cobra.Command, v *viper.Viper) error {
	req, err := installRequest(v)
	if err != nil {
		return configurationFailed(err)
	}

	s, err := env.newSession(v.GetString(orgCredentialsFlag))
	if err != nil {
		return configurationFailed(err)
	}
	defer s.close()

	deployer, err := env.factory.Deployer(s.op)
	if err != nil {
		return configurationFailed(err)
	}

	var opts []resmgmt.RequestOption
	if v.GetBool(skipInstalledFlag) {
		opts = append(opts, resmgmt.WithSkipInstalled())
	}

	responses, err := deployer.InstallCC(v.GetString(channelFlag), req, opts...)
	if err != nil {
		return env.operationFailed(err)
	}

	for _, r := range responses {
		info := r.Info
		if info == "" {
			info = "installed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: status %d, %s\n", r.Target, r.Status, info)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Chaincode %s:%s installed on %d peer(s)\n", req.Name, req.Version, len(responses))

	return nil
}

// installRequest checks the install flags and, for golang chaincode, that the
// source exists under GOPATH
func installRequest(v *viper.Viper) (resmgmt.InstallCCRequest, error) {
	if err := requireFlags(v, ccNameFlag, ccVersionFlag, srcDirFlag, channelFlag, orgCredentialsFlag); err != nil {
		return resmgmt.InstallCCRequest{}, err
	}

	ccType, err := fab.ParseChaincodeType(v.GetString(ccTypeFlag))
	if err != nil {
		return resmgmt.InstallCCRequest{}, status.NewConfigurationError(status.InvalidArgument, "%s", err)
	}

	req := resmgmt.InstallCCRequest{
		Name:    v.GetString(ccNameFlag),
		Version: v.GetString(ccVersionFlag),
		Path:    v.GetString(srcDirFlag),
		Type:    ccType,
	}

	switch ccType {
	case fab.Golang:
		req.GoPath = os.Getenv("GOPATH")
		if req.GoPath == "" {
			return req, status.NewConfigurationError(status.MissingEnvironment, "GOPATH must be set to install golang chaincode")
		}
		if err := checkDir(filepath.Join(req.GoPath, "src", req.Path)); err != nil {
			return req, err
		}
	case fab.Node, fab.Java:
		if err := checkDir(req.Path); err != nil {
			return req, err
		}
	}

	return req, nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return status.NewConfigurationError(status.InvalidArgument, "chaincode source directory %s does not exist", dir)
	}
	return nil
}
