/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import (
	"io/ioutil"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"gopkg.in/yaml.v2"

	"github.com/securekey/fabric-ccdeploy/pkg/common/errors/status"
	"github.com/securekey/fabric-ccdeploy/pkg/fab/policy"
)

// collectionConfig is one entry of a collections config file. JSON files are
// read with the YAML decoder.
type collectionConfig struct {
	Name              string `yaml:"name"`
	Policy            string `yaml:"policy"`
	RequiredPeerCount int32  `yaml:"requiredPeerCount"`
	MaxPeerCount      int32  `yaml:"maxPeerCount"`
	BlockToLive       uint64 `yaml:"blockToLive"`
	MemberOnlyRead    bool   `yaml:"memberOnlyRead"`
	MemberOnlyWrite   bool   `yaml:"memberOnlyWrite"`
}

func loadCollectionsConfig(path string) (*pb.CollectionConfigPackage, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, status.NewConfigurationError(status.InvalidArgument, "failed to read collections config: %s", err)
	}
	return parseCollectionsConfig(raw)
}

func parseCollectionsConfig(raw []byte) (*pb.CollectionConfigPackage, error) {
	var configs []collectionConfig
	if err := yaml.Unmarshal(raw, &configs); err != nil {
		return nil, status.NewConfigurationError(status.InvalidArgument, "failed to parse collections config: %s", err)
	}
	if len(configs) == 0 {
		return nil, status.NewConfigurationError(status.InvalidArgument, "collections config has no collections")
	}

	pkg := &pb.CollectionConfigPackage{}
	names := make(map[string]bool, len(configs))
	for _, c := range configs {
		if c.Name == "" {
			return nil, status.NewConfigurationError(status.InvalidArgument, "collection name is required")
		}
		if names[c.Name] {
			return nil, status.NewConfigurationError(status.InvalidArgument, "collection %s is defined more than once", c.Name)
		}
		names[c.Name] = true

		p, err := policy.Parse(c.Policy)
		if err != nil {
			return nil, status.NewConfigurationError(status.InvalidArgument, "collection %s: %s", c.Name, err)
		}

		pkg.Config = append(pkg.Config, &pb.CollectionConfig{
			Payload: &pb.CollectionConfig_StaticCollectionConfig{
				StaticCollectionConfig: &pb.StaticCollectionConfig{
					Name: c.Name,
					MemberOrgsPolicy: &pb.CollectionPolicyConfig{
						Payload: &pb.CollectionPolicyConfig_SignaturePolicy{SignaturePolicy: p},
					},
					RequiredPeerCount: c.RequiredPeerCount,
					MaximumPeerCount:  c.MaxPeerCount,
					BlockToLive:       c.BlockToLive,
					MemberOnlyRead:    c.MemberOnlyRead,
					MemberOnlyWrite:   c.MemberOnlyWrite,
				},
			},
		})
	}

	return pkg, nil
}
