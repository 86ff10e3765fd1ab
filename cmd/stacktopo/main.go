// Package main is the entry point for the stacktopo CLI.
//
// stacktopo provisions a fixed three-network topology on an OpenStack
// control plane: networks, subnets, a router, instances, a floating IP,
// a security group and a keypair.
//
// Commands: init, create, export, list, token, image, version.
//
// For detailed usage information, run:
//
//	stacktopo --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/stacktopo/cmd/stacktopo/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
