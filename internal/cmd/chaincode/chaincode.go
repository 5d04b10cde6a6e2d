/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package chaincode implements the chaincode install, instantiate and invoke commands.
package chaincode

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/securekey/fabric-ccdeploy/pkg/client/channel"
	"github.com/securekey/fabric-ccdeploy/pkg/client/resmgmt"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/metrics"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/context"
	contextImpl "github.com/securekey/fabric-ccdeploy/pkg/context"
	"github.com/securekey/fabric-ccdeploy/pkg/fabsdk"
)

const (
	chainFuncName = "chaincode"
	chainCmdDes   = "Operate a chaincode: install|instantiate|invoke."

	// EnvPrefix prefixes the environment variables that override flags
	EnvPrefix = "CCDEPLOY"

	defaultTimeoutMS = 120000
	metricsJob       = "ccdeploy"
)

// Global flag names
const (
	connProfileFlag    = "conn-profile"
	orgFlag            = "org"
	logLevelFlag       = "log-level"
	logFormatFlag      = "log-format"
	metricsPushURLFlag = "metrics-push-url"
)

var logger = logging.NewLogger("ccdeploy/cmd")

// Deployer installs, instantiates and upgrades chaincode
type Deployer interface {
	InstallCC(channelID string, req resmgmt.InstallCCRequest, options ...resmgmt.RequestOption) ([]resmgmt.InstallCCResponse, error)
	InstantiateOrUpgradeCC(channelID string, req resmgmt.InstantiateCCRequest, options ...resmgmt.RequestOption) (resmgmt.InstantiateCCResponse, error)
}

// Invoker invokes or queries chaincode
type Invoker interface {
	InvokeOrQuery(request channel.Request, query bool, options ...channel.RequestOption) (channel.Response, error)
}

// ClientFactory creates the clients the commands run against
type ClientFactory interface {
	Deployer(ctx context.Client) (Deployer, error)
	Invoker(ctx context.Client, channelID string) (Invoker, error)
}

type sdkClientFactory struct{}

func (sdkClientFactory) Deployer(ctx context.Client) (Deployer, error) {
	return resmgmt.New(ctx)
}

func (sdkClientFactory) Invoker(ctx context.Client, channelID string) (Invoker, error) {
	return channel.New(ctx, channelID)
}

// environment is shared by the chaincode commands. Flag values are read
// through viper so that CCDEPLOY_<FLAG> environment variables apply.
type environment struct {
	factory ClientFactory
	v       *viper.Viper
	errOut  io.Writer
}

// Cmd returns the cobra command for chaincode. A nil factory creates the
// clients from the connection profile.
func Cmd(cf ClientFactory) *cobra.Command {
	if cf == nil {
		cf = sdkClientFactory{}
	}

	env := &environment{factory: cf, v: newViper(), errOut: os.Stderr}

	cmd := &cobra.Command{
		Use:          chainFuncName,
		Short:        fmt.Sprint(chainCmdDes),
		Long:         fmt.Sprint(chainCmdDes),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env.errOut = cmd.ErrOrStderr()
			return env.initLogging()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(connProfileFlag, "", "Path to the connection profile (JSON or YAML)")
	flags.String(orgFlag, "", "Organization the operation runs as")
	flags.String(logLevelFlag, defaultLogLevel(), "Log level: critical, error, warning, info or debug")
	flags.String(logFormatFlag, string(logging.FormatConsole), "Log format: console, json or logfmt")
	flags.String(metricsPushURLFlag, "", "Prometheus Pushgateway URL the operation metrics are pushed to")
	bindFlags(env.v, flags)

	cmd.AddCommand(installCmd(env))
	cmd.AddCommand(instantiateCmd(env))
	cmd.AddCommand(invokeCmd(env))

	return cmd
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags makes the flags readable through v. Every subcommand has its own
// viper since they share flag names.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
}

func defaultLogLevel() string {
	if level := os.Getenv("LOGGING_LEVEL"); level != "" {
		return level
	}
	return "info"
}

func (env *environment) initLogging() error {
	format, err := logging.ParseFormat(env.v.GetString(logFormatFlag))
	if err != nil {
		return configurationFailed(status.NewConfigurationError(status.InvalidArgument, "%s", err))
	}
	level, err := logging.LogLevel(env.v.GetString(logLevelFlag))
	if err != nil {
		return configurationFailed(status.NewConfigurationError(status.InvalidArgument, "%s", err))
	}

	provider, err := logging.NewZapProvider(format, env.errOut)
	if err != nil {
		return configurationFailed(err)
	}
	logging.Initialize(provider)
	logging.SetDefaultLevel(level)

	return nil
}

// session is the per-operation state of a command
type session struct {
	op      *contextImpl.Operation
	prom    *metrics.PrometheusProvider
	pushURL string
}

// newSession loads the connection profile and resolves the operator identity
// from the credentials file. Errors are configuration errors.
func (env *environment) newSession(credentialsPath string) (*session, error) {
	profile := env.v.GetString(connProfileFlag)
	if profile == "" {
		return nil, status.NewConfigurationError(status.InvalidArgument, "--%s is required", connProfileFlag)
	}
	if _, err := os.Stat(profile); err != nil {
		return nil, status.NewConfigurationError(status.InvalidProfile, "connection profile %s not found", profile)
	}

	org := env.v.GetString(orgFlag)
	if org == "" {
		return nil, status.NewConfigurationError(status.InvalidArgument, "--%s is required", orgFlag)
	}

	s := &session{pushURL: env.v.GetString(metricsPushURLFlag)}

	opts := []fabsdk.SDKOption{fabsdk.ConfigFile(profile)}
	if s.pushURL != "" {
		s.prom = metrics.NewPrometheusProvider()
		opts = append(opts, fabsdk.WithMetricsProvider(s.prom))
	}

	sdk, err := fabsdk.New(opts...)
	if err != nil {
		return nil, err
	}

	identity, err := sdk.ResolveIdentity(org, credentialsPath)
	if err != nil {
		return nil, err
	}

	s.op, err = sdk.NewOperation(org, identity)
	if err != nil {
		return nil, err
	}

	logger.Debugf("operation context created for org [%s] with identity [%s]", org, identity.Identifier().ID)

	return s, nil
}

// close releases the operation's connections and pushes the collected metrics
func (s *session) close() {
	s.op.Close()

	if s.prom != nil {
		if err := s.prom.Push(s.pushURL, metricsJob); err != nil {
			logger.Warnf("%s", err)
		}
	}
}

// configurationFailed prefixes errors raised before the operation starts
func configurationFailed(err error) error {
	return errors.WithMessage(err, "configuration failed")
}

// operationFailed reports err, which already names the failed phase, and adds
// a hint when the outcome of the transaction is unknown
func (env *environment) operationFailed(err error) error {
	if status.IsCommitTimeout(err) {
		fmt.Fprintln(env.errOut, "The transaction was sent to the orderer but no commit event was received in time. "+
			"Its outcome is unknown: query the ledger before retrying.")
	}
	return err
}

func toArgs(args []string) [][]byte {
	out := make([][]byte, len(args))
	for i, a := range args {
		out[i] = []byte(a)
	}
	return out
}

func requireFlags(v *viper.Viper, names ...string) error {
	var missing []string
	for _, name := range names {
		if v.GetString(name) == "" {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return status.NewConfigurationError(status.InvalidArgument, "required flags not set: %s", strings.Join(missing, ", "))
	}
	return nil
}
