/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/scoir/persona/pkg/ledger"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the persona mock ledger",
	Long:  `Starts a persona mock ledger daemon`,
	Run:   runStart,
}

func runStart(_ *cobra.Command, _ []string) {
	srv, err := ledger.New(ctx)
	if err != nil {
		log.Fatalln("unable to initialize persona ledger", err)
	}

	err = srv.Start()
	if err != nil {
		log.Fatalln("launch errored with", err)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
}
