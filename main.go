// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/distcalc/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
