// Package cli wires nibiru's cobra command: the public "run" command
// operators invoke, and hidden internal flags the supervisor sets when it
// re-execs the binary to start its static responder and worker children.
// spec.md §3's argument grammar ("nibiru <options> module.path:callable
// [port]") maps onto "run" here; the leading "run" word may also be
// omitted, matching the original's single-command CLI shape.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mblayman/nibiru/internal/config"
	"github.com/mblayman/nibiru/internal/logging"
	"github.com/mblayman/nibiru/internal/supervisor"
)

// Execute builds the root command and runs it against os.Args.
func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nibiru [run] <module.path:callable> [port]",
		Short:         "nibiru serves an application callable over HTTP/1.1 using a prefork worker pool",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.MaximumNArgs(3),
		RunE:          runSupervisor,
	}
	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(c.UsageString())
		return err
	})

	root.Flags().IntP("workers", "w", config.DefaultWorkers, "number of application worker processes")
	root.Flags().String("static", config.DefaultStaticRoot, "directory served for static requests")
	root.Flags().String("static-url", config.DefaultStaticURLPrefix, "URL path prefix that marks a request static")
	root.Flags().Bool("upgradeable", false, "enable zero-downtime binary upgrades via SIGHUP (tableflip)")
	root.Flags().Bool("trust-proxy-protocol", false, "expect a PROXY protocol v1 header ahead of every request (behind a TCP load balancer)")

	addInternalFlags(root)

	return root
}

// runSupervisor is the RunE for the root command. A re-exec'd child
// recognizes itself via the hidden role flag and never reaches the
// operator-facing argument handling below.
func runSupervisor(cmd *cobra.Command, args []string) error {
	if isChild, err := runAsChild(cmd); isChild {
		return err
	}

	if len(args) > 0 && args[0] == "run" {
		args = args[1:]
	}
	if len(args) == 0 {
		return fmt.Errorf("nibiru: missing required application specifier (module.path:callable)")
	}
	if len(args) > 2 {
		return fmt.Errorf("nibiru: accepts at most an application specifier and a port, received %d args", len(args))
	}

	module, callable, err := config.ParseAppSpecifier(args[0])
	if err != nil {
		return err
	}

	port := config.DefaultPort
	if len(args) == 2 {
		port = args[1]
	}

	workers, _ := cmd.Flags().GetInt("workers")
	staticRoot, _ := cmd.Flags().GetString("static")
	staticURLPrefix, _ := cmd.Flags().GetString("static-url")
	upgradeable, _ := cmd.Flags().GetBool("upgradeable")
	trustProxyProtocol, _ := cmd.Flags().GetBool("trust-proxy-protocol")

	cfg := &config.Server{
		Port:               port,
		Workers:            workers,
		StaticRoot:         staticRoot,
		StaticURLPrefix:    staticURLPrefix,
		AppModule:          module,
		AppCallable:        callable,
		Upgradeable:        upgradeable,
		TrustProxyProtocol: trustProxyProtocol,
	}

	log := logging.New("supervisor", -1)
	sup := supervisor.New(cfg, log)

	if cfg.Upgradeable {
		return supervisor.RunUpgradeable(sup)
	}
	return sup.Run()
}
