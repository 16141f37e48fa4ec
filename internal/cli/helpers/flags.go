package helpers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddFormatFlag adds a standard --format/-o flag to a command.
func AddFormatFlag(cmd *cobra.Command, formatVar *string, defaultFormat OutputFormat, supportedFormats []OutputFormat) {
	formatNames := make([]string, len(supportedFormats))
	for i, f := range supportedFormats {
		formatNames[i] = string(f)
	}

	description := fmt.Sprintf("Output format (%s)", strings.Join(formatNames, ", "))
	cmd.Flags().StringVarP(formatVar, "format", "o", string(defaultFormat), description)

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return formatNames, cobra.ShellCompDirectiveNoFileComp
	})
}

// ValidateFormat checks if the format is in the supported list.
func ValidateFormat(format string, supported []OutputFormat) error {
	for _, s := range supported {
		if format == string(s) {
			return nil
		}
	}

	supportedNames := make([]string, len(supported))
	for i, s := range supported {
		supportedNames[i] = string(s)
	}

	return fmt.Errorf("unsupported format %q, must be one of: %s",
		format, strings.Join(supportedNames, ", "))
}

// AnalysisFlags are the flags shared by every command that builds a graph.
type AnalysisFlags struct {
	ConfigPath    string
	LogLevel      string
	Backend       string
	ReadelfReport string
	ObjdumpReport string
	Mnemonics     []string
}

// Register adds the flags to fs.
func (f *AnalysisFlags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "Config file (default $CALLGRAPH_CONFIG or ~/.callgraph/config.yaml)")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&f.Backend, "backend", "", "Record producer: tools (readelf/objdump) or native (in-process ELF/x86 decoding)")
	fs.StringVar(&f.ReadelfReport, "readelf-report", "", "Read saved `readelf --headers --symbols` output instead of running readelf")
	fs.StringVar(&f.ObjdumpReport, "objdump-report", "", "Read saved `objdump -d` output instead of running objdump")
	fs.StringSliceVar(&f.Mnemonics, "mnemonics", nil, "Control-transfer mnemonics that produce edges (comma-separated)")
}
