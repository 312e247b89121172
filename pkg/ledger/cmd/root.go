/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scoir/persona/pkg/amqp"
	"github.com/scoir/persona/pkg/amqp/rabbitmq"
	"github.com/scoir/persona/pkg/datastore"
	"github.com/scoir/persona/pkg/datastore/mem"
	"github.com/scoir/persona/pkg/framework"
)

var cfgFile string

var ctx *Provider

var rootCmd = &cobra.Command{
	Use:   "persona-ledger",
	Short: "The persona mock ledger daemon.",
	Long: `"The persona mock ledger daemon.".

 A stand-in testnet for the persona demo identity platform.`,
}

type Provider struct {
	vp *viper.Viper
	ds datastore.Provider
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/persona/persona-ledger-config.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	vp := viper.New()
	if cfgFile != "" {
		// Use vp file from the flag.
		vp.SetConfigFile(cfgFile)
	} else {
		vp.SetConfigType("yaml")
		vp.AddConfigPath("/etc/persona/")
		vp.AddConfigPath("./config/")
		vp.SetConfigName("persona-ledger-config")
	}

	vp.SetDefault("api.host", "")
	vp.SetDefault("api.port", 1317)
	vp.SetDefault("chain.id", "persona-testnet-1")
	vp.SetDefault("chain.nodeid", "mock-node-001")
	vp.SetDefault("chain.moniker", "testnet-node")
	vp.SetDefault("chain.version", "v1.0.0-test")

	vp.AutomaticEnv() // read in environment variables that match
	_ = vp.BindEnv("api.port", "PORT")
	_ = vp.BindPFlags(rootCmd.PersistentFlags())

	// The daemon runs with defaults when no vp file is found.
	if err := vp.ReadInConfig(); err != nil {
		fmt.Println("no vp file found, using defaults")
	}

	ctx = &Provider{vp: vp}
}

func (r *Provider) GetHTTPEndpoint() (*framework.Endpoint, error) {
	// Get* rather than UnmarshalKey so the PORT env binding is honored.
	ep := &framework.Endpoint{
		Host: r.vp.GetString("api.host"),
		Port: r.vp.GetInt("api.port"),
	}
	if ep.Port == 0 {
		return nil, errors.New("api endpoint is not properly configured")
	}

	return ep, nil
}

func (r *Provider) GetDatastore() datastore.Store {
	if r.ds == nil {
		r.ds = mem.NewProvider()
	}

	store, err := r.ds.OpenStore(datastore.LedgerC)
	if err != nil {
		log.Fatalln("unable to open ledger store", err)
	}

	return store
}

func (r *Provider) GetChainConfig() *framework.ChainConfig {
	return &framework.ChainConfig{
		ID:      r.vp.GetString("chain.id"),
		NodeID:  r.vp.GetString("chain.nodeid"),
		Moniker: r.vp.GetString("chain.moniker"),
		Version: r.vp.GetString("chain.version"),
	}
}

// GetAMQPPublisher returns nil when no AMQP block is configured; ledger
// events are then skipped.
func (r *Provider) GetAMQPPublisher(queue string) amqp.Publisher {
	if !r.vp.IsSet("amqp.host") {
		return nil
	}

	ac := &framework.AMQPConfig{}
	err := r.vp.UnmarshalKey("amqp", ac)
	if err != nil {
		log.Fatalln("amqp is not properly configured", err)
	}

	pub, err := rabbitmq.NewPublisher(ac.Endpoint(), queue)
	if err != nil {
		log.Fatalln("unable to connect to AMQP", err)
	}

	return pub
}
