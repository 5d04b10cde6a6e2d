/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/securekey/fabric-ccdeploy/pkg/client/resmgmt"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/policy"
)

const (
	initFnFlag            = "init-fn"
	initArgsFlag          = "init-args"
	timeoutFlag           = "timeout"
	endorsementPolicyFlag = "endorsement-policy"
	adminIdentityFlag     = "admin-identity"
	collectionsFlag       = "collections-config"
)

func instantiateCmd(env *environment) *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "instantiate",
		Short: "Instantiate chaincode on a channel, or upgrade it if it is already instantiated.",
		Long: "Instantiate chaincode on a channel, or upgrade it if it is already instantiated. " +
			"Without --cc-version an upgrade increments the instantiated version.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.instantiate(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String(ccNameFlag, "", "Name of the chaincode")
	flags.String(ccVersionFlag, "", "Version to instantiate or upgrade to")
	flags.String(channelFlag, "", "Channel to instantiate the chaincode on")
	flags.String(initFnFlag, "init", "Function called on instantiate or upgrade")
	flags.StringSlice(initArgsFlag, nil, "Arguments passed to the init function")
	flags.Int(timeoutFlag, defaultTimeoutMS, "Timeout of the whole operation in milliseconds")
	flags.String(endorsementPolicyFlag, "", "Endorsement policy, as JSON or as an AND/OR/OutOf expression")
	flags.String(ccTypeFlag, fab.Golang.String(), "Language the chaincode is written in: golang, node or java")
	flags.String(adminIdentityFlag, "", "Path to the organization admin's credentials file")
	flags.String(collectionsFlag, "", "Path to a private data collections config, JSON or YAML")
	bindFlags(v, flags)

	return cmd
}

func (env *environment) instantiate(cmd *cobra.Command, v *viper.Viper) error {
	req, err := instantiateRequest(v)
	if err != nil {
		return configurationFailed(err)
	}

	s, err := env.newSession(v.GetString(adminIdentityFlag))
	if err != nil {
		return configurationFailed(err)
	}
	defer s.close()

	deployer, err := env.factory.Deployer(s.op)
	if err != nil {
		return configurationFailed(err)
	}

	channelID := v.GetString(channelFlag)
	resp, err := deployer.InstantiateOrUpgradeCC(channelID, req,
		resmgmt.WithTimeout(time.Duration(v.GetInt(timeoutFlag))*time.Millisecond),
		resmgmt.WithInstalledVersionsReport(),
	)
	if err != nil {
		return env.operationFailed(err)
	}

	action := "instantiated"
	if resp.Upgrade {
		action = "upgraded"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Chaincode %s %s at version %s on channel %s\n", req.Name, action, resp.Version, channelID)
	fmt.Fprintf(cmd.OutOrStdout(), "Transaction %s: %s in block %d\n", resp.TransactionID, resp.ValidationCode, resp.BlockNumber)

	return nil
}

func instantiateRequest(v *viper.Viper) (resmgmt.InstantiateCCRequest, error) {
	if err := requireFlags(v, ccNameFlag, channelFlag, adminIdentityFlag); err != nil {
		return resmgmt.InstantiateCCRequest{}, err
	}
	if v.GetInt(timeoutFlag) <= 0 {
		return resmgmt.InstantiateCCRequest{}, status.NewConfigurationError(status.InvalidArgument, "--%s must be positive", timeoutFlag)
	}

	ccType, err := fab.ParseChaincodeType(v.GetString(ccTypeFlag))
	if err != nil {
		return resmgmt.InstantiateCCRequest{}, status.NewConfigurationError(status.InvalidArgument, "%s", err)
	}

	req := resmgmt.InstantiateCCRequest{
		Name:    v.GetString(ccNameFlag),
		Version: v.GetString(ccVersionFlag),
		Type:    ccType,
		Fcn:     v.GetString(initFnFlag),
		Args:    toArgs(v.GetStringSlice(initArgsFlag)),
	}

	if p := v.GetString(endorsementPolicyFlag); p != "" {
		req.Policy, err = policy.Parse(p)
		if err != nil {
			return req, err
		}
	}

	if path := v.GetString(collectionsFlag); path != "" {
		req.CollConfig, err = loadCollectionsConfig(path)
		if err != nil {
			return req, err
		}
	}

	return req, nil
}
