// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command btrfswalk opens a btrfs block device or image file
// read-only and prints the full pathname of every regular file
// reachable from the default filesystem subvolume.
package main

import (
	"context"
	"io"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"git.lukeshu.com/btrfswalk/internal/btrfs"
)

// logLevelFlag adapts logrus.Level to pflag.Value, the same pattern
// cmd/btrfs-rec/main.go uses for its own --verbosity flag.
type logLevelFlag struct {
	logrus.Level
}

func (lvl *logLevelFlag) Type() string { return "loglevel" }
func (lvl *logLevelFlag) Set(str string) error {
	var err error
	lvl.Level, err = logrus.ParseLevel(str)
	return err
}

var _ pflag.Value = (*logLevelFlag)(nil)

func main() {
	verbosity := logLevelFlag{Level: logrus.InfoLevel}

	cmd := &cobra.Command{
		Use:           "btrfswalk DEVICE",
		Short:         "Print the pathname of every regular file in a btrfs image",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			logger.SetLevel(verbosity.Level)
			ctx := dlog.WithLogger(cmd.Context(), dlog.WrapLogrus(logger))
			return run(ctx, args[0], cmd.OutOrStdout())
		},
	}
	cmd.PersistentFlags().Var(&verbosity, "verbosity", "set the log verbosity (panic, fatal, error, warn, info, debug, trace)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		dlog.Errorf(context.Background(), "%v", err)
		os.Stderr.WriteString(cmd.Name() + ": error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, out io.Writer) error {
	dev, err := btrfs.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	fs, err := btrfs.OpenFS(ctx, dev)
	if err != nil {
		return err
	}

	fsTreeRoot, err := fs.FindDefaultSubvolume(ctx)
	if err != nil {
		return err
	}

	walker := btrfs.NewWalker(fs, fsTreeRoot)
	return walker.Walk(ctx, out)
}
