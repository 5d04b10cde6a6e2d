/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package multi

import (
	"fmt"
)

func Example() {
	var err error
	err = Append(err, fmt.Errorf("peer0.org1 has no url"))
	err = Append(err, fmt.Errorf("peer1.org1 uses grpcs but has no tlsCACerts"))

	// We can extract multi errors from a standard error
	errs, ok := err.(Errors)
	fmt.Println(ok)

	// And handle each error individually
	for _, e := range errs {
		fmt.Println(e)
	}

	// Output:
	// true
	// peer0.org1 has no url
	// peer1.org1 uses grpcs but has no tlsCACerts
}
