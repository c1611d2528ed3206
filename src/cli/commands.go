package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	versionpkg "rename-gateway/src/internal/version"
)

// CLI Constants
const (
	CmdRename     = "rename"
	CmdPreview    = "preview"
	CmdPrepare    = "prepare"
	CmdIndex      = "index"
	CmdIndexStats = "stats"
	CmdVersion    = "version"
	FlagConfig    = "config"
	FlagIndex     = "index"
	FlagWrite     = "write"
	FlagJSON      = "json"
	FlagVerbose   = "verbose"
	FlagWorkers   = "workers"
)

// CLI Variables
var (
	configPath string
	indexPath  string
	writeFiles bool
	formatJSON bool
	verbose    bool
	workers    int
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "rename-gateway",
	Short: "Rename Gateway - cross-language rename engine for mixed-language workspaces",
	Long: `Rename Gateway computes the exact workspace-wide edit set for renaming a
symbol in a codebase that mixes a native language with foreign binding
languages reached through a name-translation boundary.

QUICK START:
  rename-gateway rename main.go 12:8 doMore      # Preview a rename as a diff
  rename-gateway rename main.go 12:8 doMore --write
  rename-gateway prepare main.go 12:8            # Check what sits under a position

CORE FEATURES:
  - Compound and labeled name handling ("doWork(a:b:)")
  - Cross-language name translation between native and foreign spellings
  - Concurrent per-file edit synthesis with per-file failure isolation
  - Local single-file fallback when workspace-wide information is missing

AVAILABLE COMMANDS:
  rename-gateway rename <file> <line>:<col> <new-name>   # Compute and apply/preview edits
  rename-gateway preview <file> <line>:<col> <new-name>  # Show the edits as diffs only
  rename-gateway prepare <file> <line>:<col>             # Show the renamable name at a position
  rename-gateway index stats                             # Show symbol index statistics
  rename-gateway version                                 # Show version information

Positions are 1-based line:column pairs as editors display them.

Use 'rename-gateway <command> --help' for detailed command information.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command definitions
var (
	renameCmd = &cobra.Command{
		Use:   CmdRename + " <file> <line>:<col> <new-name>",
		Short: "Rename the symbol at a position across the workspace",
		Long: `Rename the symbol at a position, producing edits for every affected file.

Without --write the edits are shown as a unified diff; with --json the raw
LSP WorkspaceEdit is printed instead. When the symbol index cannot resolve
the symbol the rename degrades to the anchor file only.

Examples:
  rename-gateway rename src/lib.go 12:8 doMore
  rename-gateway rename src/lib.go 12:8 "doMore(x:_:)" --write
  rename-gateway rename src/lib.go 12:8 doMore --json`,
		Args: cobra.ExactArgs(3),
		RunE: runRenameCmd,
	}

	previewCmd = &cobra.Command{
		Use:   CmdPreview + " <file> <line>:<col> <new-name>",
		Short: "Preview a rename as per-file diffs",
		Long: `Compute the rename edits and show them as per-file diffs without
touching any file. Equivalent to 'rename' without --write or --json.`,
		Args: cobra.ExactArgs(3),
		RunE: runPreviewCmd,
	}

	prepareCmd = &cobra.Command{
		Use:   CmdPrepare + " <file> <line>:<col>",
		Short: "Show the renamable name at a position",
		Long: `Report whether a rename can start at the position, the range the editor
should highlight, and the full name to prefill.`,
		Args: cobra.ExactArgs(2),
		RunE: runPrepareCmd,
	}

	indexCmd = &cobra.Command{
		Use:   CmdIndex,
		Short: "Inspect the symbol index",
		Long:  `Tools for inspecting the persisted symbol index the rename engine reads.`,
	}

	indexStatsCmd = &cobra.Command{
		Use:   CmdIndexStats,
		Short: "Show symbol index statistics",
		Long:  `Display document, occurrence, and symbol counts for the loaded index.`,
		RunE:  runIndexStatsCmd,
	}

	versionCmd = &cobra.Command{
		Use:   CmdVersion,
		Short: "Show version information",
		Long: `Display version information for Rename Gateway.

By default, shows only the version number. Use --verbose for detailed build
information including commit hash, build date, and Go version.`,
		RunE: runVersionCmd,
	}
)

func init() {
	renameCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional, will use defaults if not provided)")
	renameCmd.Flags().StringVar(&indexPath, FlagIndex, "", "Symbol index file path (overrides configuration)")
	renameCmd.Flags().BoolVar(&writeFiles, FlagWrite, false, "Apply the edits to the files instead of previewing")
	renameCmd.Flags().BoolVar(&formatJSON, FlagJSON, false, "Print the LSP WorkspaceEdit as JSON")
	renameCmd.Flags().IntVar(&workers, FlagWorkers, 0, "Concurrent per-file synthesis workers (0 = default)")

	previewCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional)")
	previewCmd.Flags().StringVar(&indexPath, FlagIndex, "", "Symbol index file path (overrides configuration)")
	previewCmd.Flags().IntVar(&workers, FlagWorkers, 0, "Concurrent per-file synthesis workers (0 = default)")

	prepareCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional)")
	prepareCmd.Flags().StringVar(&indexPath, FlagIndex, "", "Symbol index file path (overrides configuration)")

	indexStatsCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional)")
	indexStatsCmd.Flags().StringVar(&indexPath, FlagIndex, "", "Symbol index file path (overrides configuration)")

	versionCmd.Flags().BoolVarP(&verbose, FlagVerbose, "v", false, "Show detailed version information")

	indexCmd.AddCommand(indexStatsCmd)

	// Add commands to root
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)
}

func runVersionCmd(cmd *cobra.Command, args []string) error {
	if verbose {
		fmt.Println(versionpkg.GetFullVersionInfo())
	} else {
		fmt.Println(versionpkg.GetVersion())
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
