/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resmgmt installs, instantiates and upgrades chaincode on a Fabric
// channel on behalf of an organization.
package resmgmt

import (
	reqContext "context"
	"time"

	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/client/common/txflow"
	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/context"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
	contextImpl "github.com/securekey/fabric-ccdeploy/pkg/context"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/ccpackager"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/channel"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/policy"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/resource"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/txn"
)

// DefaultTimeout bounds an operation when no timeout is given
const DefaultTimeout = 120 * time.Second

var logger = logging.NewLogger("ccdeploy/client")

// InstallCCRequest contains install chaincode request parameters. When
// Package is nil the source at Path is packaged according to Type.
type InstallCCRequest struct {
	Name    string
	Path    string
	Version string
	Type    fab.ChaincodeType
	// GoPath is the GOPATH that golang chaincode paths are relative to
	GoPath  string
	Package *resource.ChaincodePackage
}

// InstallCCResponse contains install chaincode response status
type InstallCCResponse struct {
	Target string
	Status int32
	Info   string
}

// InstantiateCCRequest contains instantiate or upgrade chaincode request
// parameters. An empty Version upgrades to the next integer version. A nil
// Policy is replaced by a policy requiring any member of the organization.
type InstantiateCCRequest struct {
	Name       string
	Path       string
	Version    string
	Type       fab.ChaincodeType
	Fcn        string
	Args       [][]byte
	Policy     *common.SignaturePolicyEnvelope
	CollConfig *pb.CollectionConfigPackage
}

// InstantiateCCResponse contains response parameters for InstantiateOrUpgradeCC
type InstantiateCCResponse struct {
	TransactionID  fab.TransactionID
	Version        string
	Upgrade        bool
	ValidationCode pb.TxValidationCode
	BlockNumber    uint64
}

// Client enables managing chaincode in a Fabric network.
type Client struct {
	ctx context.Client
}

// ClientOption describes a functional parameter for the New constructor
type ClientOption func(*Client) error

// New returns a resource management client for the given operation context
func New(ctx context.Client, opts ...ClientOption) (*Client, error) {
	if ctx == nil {
		return nil, errors.New("client context is required")
	}

	rc := &Client{ctx: ctx}
	for _, opt := range opts {
		if err := opt(rc); err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// InstallCC installs chaincode on the organization's peers joined to the channel.
// Peers that already have the name and version installed are skipped when
// WithSkipInstalled is given.
func (rc *Client) InstallCC(channelID string, req InstallCCRequest, options ...RequestOption) ([]InstallCCResponse, error) {
	tracker := txflow.NewTracker("install", req.Name, rc.ctx.Metrics())

	opts, err := rc.prepareRequestOpts(options...)
	if err != nil {
		return nil, tracker.Fail(txflow.PhaseConfiguration, err)
	}

	if err := checkRequiredInstallCCParams(req); err != nil {
		return nil, tracker.Fail(txflow.PhaseConfiguration, err)
	}

	if req.Package == nil {
		req.Package, err = ccpackager.NewCCPackage(req.Type, req.Path, req.GoPath)
		if err != nil {
			return nil, tracker.Fail(txflow.PhaseConfiguration, err)
		}
	}

	targets, err := rc.targets(channelID, opts)
	if err != nil {
		return nil, tracker.Fail(txflow.PhaseConfiguration, err)
	}

	reqCtx, cancel := rc.createRequestContext(opts)
	defer cancel()

	responses := make([]InstallCCResponse, 0, len(targets))

	// Targets will be adjusted if cc has already been installed
	newTargets := targets
	if opts.SkipInstalled {
		newTargets = make([]fab.Peer, 0, len(targets))
		for _, target := range targets {
			installed, err := isChaincodeInstalled(reqCtx, req, target)
			if err != nil {
				return nil, tracker.Fail(txflow.PhaseProposal, errors.WithMessagef(err, "unable to verify if cc is installed on %s", target.URL()))
			}
			if installed {
				logger.Infof("chaincode [%s:%s] is already installed on %s", req.Name, req.Version, target.URL())
				responses = append(responses, InstallCCResponse{Target: target.URL(), Status: 200, Info: "already installed"})
				continue
			}
			newTargets = append(newTargets, target)
		}
	}

	if len(newTargets) == 0 {
		tracker.Done()
		return responses, nil
	}

	tracker.Enter(txflow.Proposing)

	icr := resource.ChaincodeInstallRequest{Name: req.Name, Path: req.Path, Version: req.Version, Package: req.Package}
	result, err := resource.InstallChaincode(reqCtx, icr, txflow.Processors(newTargets))
	if err != nil {
		return nil, tracker.Fail(txflow.PhaseProposal, err)
	}

	if err := channel.Validate(result.Responses); err != nil {
		return nil, tracker.Fail(txflow.PhaseProposal, err)
	}
	tracker.Enter(txflow.Validated)

	for _, r := range result.Responses {
		logger.Debugf("Install chaincode '%s' endorser '%s' returned ProposalResponse status:%v", req.Name, r.Endorser, r.Response.Status)
		responses = append(responses, InstallCCResponse{Target: r.Endorser, Status: r.Response.Status, Info: r.Response.Response.Message})
	}

	tracker.Done()

	return responses, nil
}

// isChaincodeInstalled verify if chaincode is installed on peer
func isChaincodeInstalled(reqCtx reqContext.Context, req InstallCCRequest, peer fab.ProposalProcessor) (bool, error) {
	chaincodeQueryResponse, err := resource.QueryInstalledChaincodes(reqCtx, peer)
	if err != nil {
		return false, err
	}

	for _, chaincode := range chaincodeQueryResponse.Chaincodes {
		if chaincode.Name == req.Name && chaincode.Version == req.Version {
			return true, nil
		}
	}

	return false, nil
}

func checkRequiredInstallCCParams(req InstallCCRequest) error {
	if req.Name == "" || req.Version == "" || req.Path == "" {
		return status.NewConfigurationError(status.InvalidArgument, "chaincode name, version and path are required")
	}
	return nil
}

// InstantiateOrUpgradeCC instantiates the chaincode on the channel, or upgrades
// it when a version is already instantiated. The call returns once the
// transaction is committed, or fails with the phase that went wrong.
func (rc *Client) InstantiateOrUpgradeCC(channelID string, req InstantiateCCRequest, options ...RequestOption) (InstantiateCCResponse, error) {
	tracker := txflow.NewTracker("instantiate", req.Name, rc.ctx.Metrics())

	opts, err := rc.prepareRequestOpts(options...)
	if err != nil {
		return InstantiateCCResponse{}, tracker.Fail(txflow.PhaseConfiguration, err)
	}

	if err := checkRequiredCCProposalParams(channelID, req); err != nil {
		return InstantiateCCResponse{}, tracker.Fail(txflow.PhaseConfiguration, err)
	}

	if req.Policy == nil {
		logger.Infof("no endorsement policy given for chaincode [%s], any member of %s may endorse", req.Name, rc.ctx.Topology().MSPID())
		req.Policy = policy.Default(rc.ctx.Topology().MSPID())
	}

	targets, err := rc.targets(channelID, opts)
	if err != nil {
		return InstantiateCCResponse{}, tracker.Fail(txflow.PhaseConfiguration, err)
	}

	reqCtx, cancel := rc.createRequestContext(opts)
	defer cancel()

	tracker.Enter(txflow.Resolving)

	var resolveOpts []ResolveOption
	if opts.InstalledVersions {
		resolveOpts = append(resolveOpts, WithInstalledVersions(targets...))
	}
	state, err := Resolve(reqCtx, channelID, targets[0], req.Name, req.Version, resolveOpts...)
	if err != nil {
		return InstantiateCCResponse{}, tracker.Fail(txflow.PhaseResolution, err)
	}
	for url, versions := range state.InstalledVersions {
		logger.Infof("chaincode [%s] versions installed on %s: %v", req.Name, url, versions)
	}

	proposalType := resource.InstantiateChaincode
	if state.IsUpgrade {
		proposalType = resource.UpgradeChaincode
	}

	txh, err := txn.NewHeader(rc.ctx, channelID)
	if err != nil {
		return InstantiateCCResponse{}, tracker.Fail(txflow.PhaseProposal, errors.WithMessage(err, "create transaction ID failed"))
	}

	deployReq := resource.ChaincodeDeployRequest{
		Name:       req.Name,
		Path:       req.Path,
		Version:    state.NextVersion,
		Lang:       req.Type.SpecType(),
		Fcn:        req.Fcn,
		Args:       req.Args,
		Policy:     req.Policy,
		CollConfig: req.CollConfig,
	}
	tp, err := resource.CreateChaincodeDeployProposal(txh, proposalType, channelID, deployReq)
	if err != nil {
		return InstantiateCCResponse{}, tracker.Fail(txflow.PhaseProposal, errors.WithMessage(err, "creating chaincode deploy transaction proposal failed"))
	}

	logger.Infof("sending %s proposal for chaincode [%s:%s] on channel [%s], txID [%s]", proposalType, req.Name, state.NextVersion, channelID, tp.TxnID)

	result, err := txflow.Endorse(reqCtx, tracker, tp, txflow.Processors(targets))
	if err != nil {
		return InstantiateCCResponse{TransactionID: tp.TxnID}, tracker.Fail(txflow.PhaseProposal, err)
	}

	outcome, err := txflow.Commit(reqCtx, rc.ctx, tracker, channelID, result, opts.commitTimeout())
	if err != nil {
		return InstantiateCCResponse{TransactionID: tp.TxnID, Version: state.NextVersion, Upgrade: state.IsUpgrade}, err
	}

	tracker.Done()

	return InstantiateCCResponse{
		TransactionID:  outcome.TxnID,
		Version:        state.NextVersion,
		Upgrade:        state.IsUpgrade,
		ValidationCode: outcome.ValidationCode,
		BlockNumber:    outcome.BlockNumber,
	}, nil
}

func checkRequiredCCProposalParams(channelID string, req InstantiateCCRequest) error {
	if channelID == "" {
		return status.NewConfigurationError(status.InvalidArgument, "must provide channel ID")
	}
	if req.Name == "" {
		return status.NewConfigurationError(status.InvalidArgument, "chaincode name is required")
	}
	return nil
}

// targets returns the peers given with WithTargets, or the organization's
// peers joined to the channel
func (rc *Client) targets(channelID string, opts requestOptions) ([]fab.Peer, error) {
	if len(opts.Targets) > 0 {
		return opts.Targets, nil
	}
	if channelID == "" {
		return nil, status.NewConfigurationError(status.InvalidArgument, "must provide channel ID")
	}
	return txflow.ChannelPeers(rc.ctx, channelID)
}

// prepareRequestOpts prepares request options
func (rc *Client) prepareRequestOpts(options ...RequestOption) (requestOptions, error) {
	opts := requestOptions{}
	for _, option := range options {
		if err := option(rc.ctx, &opts); err != nil {
			return opts, errors.WithMessage(err, "Failed to read opts")
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return opts, nil
}

// createRequestContext creates request context for grpc
func (rc *Client) createRequestContext(opts requestOptions) (reqContext.Context, reqContext.CancelFunc) {
	return contextImpl.NewRequest(rc.ctx, contextImpl.WithTimeout(opts.Timeout), contextImpl.WithParent(opts.ParentContext))
}
