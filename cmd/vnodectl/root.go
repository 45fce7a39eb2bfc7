// Copyright 2025 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main implements vnodectl, a small demonstration CLI that builds a
// Vfs, bootstraps "/dev", and runs a path lookup and directory listing
// against it, the same shape as the teacher's own root.go wiring cfg,
// cobra and viper together around a single long-running operation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/googlecloudplatform/vnodefs/cfg"
	"github.com/googlecloudplatform/vnodefs/logger"
	"github.com/googlecloudplatform/vnodefs/vnode"
)

var (
	cfgFile  string
	bindErr  error
	vnodeCfg cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "vnodectl [flags] path",
	Short: "Inspect an in-memory vnode cache by resolving and listing a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		return run(args[0])
	},
}

func run(path string) error {
	log := logger.New(logger.Config{
		Filename:   vnodeCfg.LogFile.Path,
		MaxSizeMB:  vnodeCfg.LogFile.MaxSizeMB,
		MaxBackups: vnodeCfg.LogFile.MaxBackups,
		MaxAgeDays: vnodeCfg.LogFile.MaxAgeDays,
	})

	vfs, err := vnode.New(vnode.Config{
		MaxVnodeSize: vnodeCfg.Pool.MaxVnodeSize,
		LRUBatch:     vnodeCfg.Pool.LRUBatch,
		DevMode:      uint32(vnodeCfg.Pool.DevMode),
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("initializing vnode cache: %w", err)
	}

	if _, err := vfs.DevInit(); err != nil {
		return fmt.Errorf("bootstrapping /dev: %w", err)
	}

	target, err := vfs.Lookup(path, 0)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", path, err)
	}
	log.Info("resolved path", "path", path, "id", target.ID(), "dir", target.IsDir())

	if target.IsDir() {
		stream := &vnode.DirStream{ReadCount: 64}
		n, err := vfs.Readdir(target, stream)
		if err != nil {
			return fmt.Errorf("readdir %q: %w", path, err)
		}
		for _, ent := range stream.Entries {
			fmt.Printf("%s\n", ent.Name)
		}
		log.Info("readdir complete", "path", path, "entries", n)
	}

	count, bytes := vfs.MemoryDump()
	fmt.Fprintf(os.Stdout, "reclaimable: %d vnodes (%d bytes)\n", count, bytes)
	return nil
}

// Execute runs the command tree, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			bindErr = fmt.Errorf("reading config file: %w", err)
			return
		}
	}
	if err := viper.Unmarshal(&vnodeCfg); err != nil {
		bindErr = fmt.Errorf("unmarshalling config: %w", err)
	}
}

func main() {
	Execute()
}
