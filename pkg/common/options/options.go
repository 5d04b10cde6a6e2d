/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package options holds the functional option plumbing shared by the peer,
// orderer and deliver client connection settings.
package options

// Params is the settings struct an Opt writes to. Each Opt type-asserts
// Params to the setter interface it needs and ignores it otherwise.
type Params interface{}

// Opt sets one connection setting
type Opt func(opts Params)

// Apply runs opts against params in order
func Apply(params Params, opts []Opt) {
	for _, opt := range opts {
		opt(params)
	}
}
