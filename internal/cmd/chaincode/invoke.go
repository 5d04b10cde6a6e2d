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

	"github.com/securekey/fabric-ccdeploy/pkg/client/channel"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
)

const (
	invokeFnFlag   = "invoke-fn"
	invokeArgsFlag = "invoke-args"
	queryFlag      = "query"
)

func invokeCmd(env *environment) *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Invoke or query chaincode.",
		Long:  "Invoke chaincode and wait for the transaction to commit, or with --query only evaluate it on the peers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.invoke(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String(ccNameFlag, "", "Name of the chaincode")
	flags.String(channelFlag, "", "Channel the chaincode is instantiated on")
	flags.String(invokeFnFlag, "", "Chaincode function to call")
	flags.StringSlice(invokeArgsFlag, nil, "Arguments passed to the function")
	flags.Bool(queryFlag, false, "Query the chaincode without submitting a transaction")
	flags.Int(timeoutFlag, defaultTimeoutMS, "Timeout of the whole operation in milliseconds")
	flags.String(adminIdentityFlag, "", "Path to the credentials file of the identity invoking the chaincode")
	bindFlags(v, flags)

	return cmd
}

func (env *environment) invoke(cmd *cobra.Command, v *viper.Viper) error {
	if err := requireFlags(v, ccNameFlag, channelFlag, invokeFnFlag, adminIdentityFlag); err != nil {
		return configurationFailed(err)
	}
	if v.GetInt(timeoutFlag) <= 0 {
		return configurationFailed(status.NewConfigurationError(status.InvalidArgument, "--%s must be positive", timeoutFlag))
	}

	s, err := env.newSession(v.GetString(adminIdentityFlag))
	if err != nil {
		return configurationFailed(err)
	}
	defer s.close()

	invoker, err := env.factory.Invoker(s.op, v.GetString(channelFlag))
	if err != nil {
		return configurationFailed(err)
	}

	query := v.GetBool(queryFlag)
	request := channel.Request{
		ChaincodeID: v.GetString(ccNameFlag),
		Fcn:         v.GetString(invokeFnFlag),
		Args:        toArgs(v.GetStringSlice(invokeArgsFlag)),
	}

	resp, err := invoker.InvokeOrQuery(request, query, channel.WithTimeout(time.Duration(v.GetInt(timeoutFlag))*time.Millisecond))
	if err != nil {
		return env.operationFailed(err)
	}

	out := cmd.OutOrStdout()
	if query {
		fmt.Fprintf(out, "status: %d\nmessage: %s\npayload: %s\n", resp.Status, resp.Message, resp.Payload)
		return nil
	}

	fmt.Fprintf(out, "Transaction %s: %s in block %d\n", resp.TransactionID, resp.TxValidationCode, resp.BlockNumber)
	return nil
}
