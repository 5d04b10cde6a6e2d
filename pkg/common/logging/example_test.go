/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"fmt"
)

func ExampleSetLevel() {
	SetLevel("example", DEBUG)

	if GetLevel("example") != DEBUG {
		fmt.Println("log level is not debug")
		return
	}
	fmt.Println("log is completed")

	// Output: log is completed
}

func ExampleLogLevel() {
	level, err := LogLevel("debug")
	if err != nil {
		fmt.Printf("failed LogLevel: %s\n", err)
		return
	}
	fmt.Println(level)

	// Output: DEBUG
}
