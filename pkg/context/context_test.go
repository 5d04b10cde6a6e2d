/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package context

import (
	reqContext "context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/test/mockfab"
	"github.com/securekey/fabric-ccdeploy/pkg/common/providers/test/mockmsp"
)

func TestNewOperation(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	identity := mockmsp.DefaultMockSigningIdentity(mockCtrl)
	topology := mockfab.DefaultMockTopology(mockCtrl)
	infra := mockfab.NewMockInfraProvider(mockCtrl)

	_, err := NewOperation(nil)
	assert.EqualError(t, err, "signing identity is required")

	_, err = NewOperation(identity, WithInfraProvider(infra))
	assert.EqualError(t, err, "channel topology is required")

	_, err = NewOperation(identity, WithTopology(topology))
	assert.EqualError(t, err, "infra provider is required")

	op, err := NewOperation(identity, WithTopology(topology), WithInfraProvider(infra))
	require.NoError(t, err)
	assert.Equal(t, topology, op.Topology())
	assert.Equal(t, infra, op.InfraProvider())
	assert.NotNil(t, op.Metrics())
	assert.Equal(t, "Org1MSP", op.Identifier().MSPID)

	infra.EXPECT().Close().Times(1)
	op.Close()
}

func TestNewRequest(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	op, err := NewOperation(mockmsp.DefaultMockSigningIdentity(mockCtrl),
		WithTopology(mockfab.DefaultMockTopology(mockCtrl)), WithInfraProvider(mockfab.NewMockInfraProvider(mockCtrl)))
	require.NoError(t, err)

	reqCtx, cancel := NewRequest(op, WithTimeout(10*time.Second))
	defer cancel()

	client, ok := RequestClientContext(reqCtx)
	require.True(t, ok)
	assert.Equal(t, op, client)

	deadline, ok := reqCtx.Deadline()
	require.True(t, ok)
	assert.True(t, deadline.After(time.Now()))

	_, ok = RequestClientContext(reqContext.Background())
	assert.False(t, ok)
}

func TestNewRequestWithParent(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	op, err := NewOperation(mockmsp.DefaultMockSigningIdentity(mockCtrl),
		WithTopology(mockfab.DefaultMockTopology(mockCtrl)), WithInfraProvider(mockfab.NewMockInfraProvider(mockCtrl)))
	require.NoError(t, err)

	parent, parentCancel := reqContext.WithCancel(reqContext.Background())

	reqCtx, cancel := NewRequest(op, WithParent(parent))
	defer cancel()

	_, ok := reqCtx.Deadline()
	assert.False(t, ok)

	parentCancel()
	select {
	case <-reqCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("request context was not cancelled with its parent")
	}
}
