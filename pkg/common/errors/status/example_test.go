/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

import (
	"fmt"

	"github.com/pkg/errors"
)

func Example() {
	// Status errors are returned by the chaincode operation clients
	statusError := New(LifecycleStatus, VersionConflict.ToInt32(), "chaincode mycc version 3 is already instantiated", nil)

	// They are usually wrapped with the phase that failed
	err := errors.WithMessage(statusError, "resolution failed")

	// A user can extract status information from the wrapped error
	status, ok := FromError(err)
	fmt.Println(ok)
	fmt.Println(status.Group)
	fmt.Println(Code(status.Code))
	fmt.Println(KindOf(err))

	// Output:
	// true
	// Lifecycle Status
	// VERSION_CONFLICT
	// VersionConflict
}
