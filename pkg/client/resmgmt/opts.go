/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resmgmt

import (
	reqContext "context"
	"time"

	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/context"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/fab"
)

// requestOptions contains options for operations performed by the resource management client
type requestOptions struct {
	Targets           []fab.Peer         // target peers
	Timeout           time.Duration      // bounds the whole operation
	CommitTimeout     time.Duration      // bounds the commit wait, defaults to Timeout
	ParentContext     reqContext.Context // parent grpc context
	SkipInstalled     bool
	InstalledVersions bool
}

func (o requestOptions) commitTimeout() time.Duration {
	if o.CommitTimeout > 0 {
		return o.CommitTimeout
	}
	return o.Timeout
}

// RequestOption func for each Opts argument
type RequestOption func(ctx context.Client, opts *requestOptions) error

// WithTargets allows overriding of the target peers for the request.
func WithTargets(targets ...fab.Peer) RequestOption {
	return func(ctx context.Client, opts *requestOptions) error {
		for _, t := range targets {
			if t == nil {
				return errors.New("target is nil")
			}
		}
		opts.Targets = targets
		return nil
	}
}

// WithTimeout bounds the operation, from proposal to commit
func WithTimeout(timeout time.Duration) RequestOption {
	return func(ctx context.Client, o *requestOptions) error {
		o.Timeout = timeout
		return nil
	}
}

// WithCommitTimeout bounds the wait for the commit event
func WithCommitTimeout(timeout time.Duration) RequestOption {
	return func(ctx context.Client, o *requestOptions) error {
		o.CommitTimeout = timeout
		return nil
	}
}

// WithParentContext encapsulates grpc context parent to Options
func WithParentContext(parentContext reqContext.Context) RequestOption {
	return func(ctx context.Client, o *requestOptions) error {
		o.ParentContext = parentContext
		return nil
	}
}

// WithSkipInstalled skips the peers that already have the chaincode installed
func WithSkipInstalled() RequestOption {
	return func(ctx context.Client, o *requestOptions) error {
		o.SkipInstalled = true
		return nil
	}
}

// WithInstalledVersionsReport logs the chaincode versions installed on every
// target before the instantiate or upgrade proposal is sent
func WithInstalledVersionsReport() RequestOption {
	return func(ctx context.Client, o *requestOptions) error {
		o.InstalledVersions = true
		return nil
	}
}
