// Package cli implements the callgraph command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/callgraph/internal/cli/helpers"
	cgerrors "github.com/coral-mesh/callgraph/internal/errors"
	"github.com/coral-mesh/callgraph/pkg/version"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	flags := &helpers.AnalysisFlags{}

	rootCmd := &cobra.Command{
		Use:   "callgraph",
		Short: "Static call graph queries for x86 ELF binaries",
		Long: `Derive a directed call graph from a binary's symbol table and disassembly,
then answer reachability questions against it.

The symbol table comes from readelf and the disassembly from objdump (or,
with --backend native, from in-process ELF reading and x86 decoding). Every
direct call or jump whose source and target fall inside known symbols becomes
an edge between the enclosing functions.

Examples:
  # Which functions reachable from get_oid call die directly?
  callgraph callers ./git --root get_oid --target die

  # Same query against previously captured tool output
  callgraph callers ./git --readelf-report git.readelf --objdump-report git.objdump

  # Everything reachable from main, as a tree
  callgraph tree ./prog main --depth 4`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.Register(rootCmd.PersistentFlags())
	for _, name := range []string{"config", "readelf-report", "objdump-report"} {
		cgerrors.Must(rootCmd.MarkPersistentFlagFilename(name), "mark --"+name+" as filename flag")
	}

	rootCmd.AddCommand(newCallersCmd(flags))
	rootCmd.AddCommand(newCalleesCmd(flags))
	rootCmd.AddCommand(newTreeCmd(flags))
	rootCmd.AddCommand(newLookupCmd(flags))
	rootCmd.AddCommand(newStatsCmd(flags))
	rootCmd.AddCommand(newEdgesCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

var versionFormats = []helpers.OutputFormat{helpers.FormatText, helpers.FormatJSON}

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, versionFormats); err != nil {
				return err
			}

			info := version.Get()
			if helpers.OutputFormat(format) == helpers.FormatJSON {
				return (&helpers.JSONFormatter{}).Format(info, cmd.OutOrStdout())
			}
			cmd.Printf("callgraph version %s\n", info.Version)
			cmd.Printf("Git commit: %s\n", info.GitCommit)
			cmd.Printf("Build date: %s\n", info.BuildDate)
			cmd.Printf("Go version: %s\n", info.GoVersion)
			cmd.Printf("Platform:   %s\n", info.Platform)
			return nil
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatText, versionFormats)

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel running analysis
// and terminate spawned tools.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
