package cmd

import (
	"github.com/dendrascience/notesfs/config"
	"github.com/dendrascience/notesfs/util"
	"github.com/dendrascience/notesfs/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the notes CLI.
// It sets up all subcommands, command groups, and the persistent flags that
// load configuration and logging before any subcommand runs.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		logFormat  string
	)

	rootCmd := &cobra.Command{
		Use:   "notes",
		Short: "notes - manage .notes virtual filesystem containers",
		Long: `notes manages .notes containers: single text files holding a virtual
directory tree as an append-only log of records.

Files are added by appending records and removed by tombstoning them in
place; defrag rewrites the container without its garbage. Containers
ending in .notes.gz are transparently decompressed and recompressed.

Use subcommands to perform different operations:
  - init, list, copyin, copyout, mkdir, rm, rmdir: edit a container
  - defrag, validate, info: maintain and inspect a container
  - import, export, seed: move whole trees in and out
  - mount: serve a container read-only over FUSE`,
		Version: version.Get().String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(hostFs, configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				loaded.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				loaded.LogFormat = logFormat
			}
			cfg = loaded
			return util.InitLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSON config file (default $"+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Logging level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "Logging format (text, json, color)")

	groupContainer := "container"
	groupUtilities := "utilities"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupContainer,
		Title: "Container Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	for _, c := range []*cobra.Command{
		NewInitCmd(),
		NewListCmd(),
		NewCopyInCmd(),
		NewCopyOutCmd(),
		NewMkdirCmd(),
		NewRmCmd(),
		NewRmdirCmd(),
		NewDefragCmd(),
	} {
		c.GroupID = groupContainer
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		NewValidateCmd(),
		NewInfoCmd(),
		NewImportCmd(),
		NewExportCmd(),
		NewSeedCmd(),
		NewMountCmd(),
	} {
		c.GroupID = groupUtilities
		rootCmd.AddCommand(c)
	}

	return rootCmd
}
