// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/33cn/raffle/dapp/raffle/commands"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "raffle",
	Short: "raffle node tools",
}

func init() {
	commands.AddFlags(rootCmd)
	rootCmd.AddCommand(commands.Commands()...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
