// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/cloudtruth/cloudtruth-cli-sub001/cmd/cloudtruth"

func main() {
	cmd.Execute()
}
