/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package main

import "github.com/gregplaysguitar/localstack/cmd"

func main() {
	cmd.Execute()
}
