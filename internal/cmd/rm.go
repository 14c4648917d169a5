package cmd

import (
	"github.com/dendrascience/notesfs/notes"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRmCmd creates and returns the rm subcommand.
func NewRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm FS IF",
		Short: "Remove a file from a container",
		Long: `Remove the internal file IF from the container FS. Its records are
tombstoned in place; run defrag to reclaim the space.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withContainer(args[0], func(c *notes.Container) error {
				return c.Remove(args[1])
			})
			if err == nil {
				log.WithFields(log.Fields{"container": args[0], "path": args[1]}).Info("removed file")
			}
			return err
		},
	}
}

// NewRmdirCmd creates and returns the rmdir subcommand.
func NewRmdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir FS ID",
		Short: "Remove a directory and its contents from a container",
		Long: `Remove the internal directory ID from the container FS together with
every file and directory beneath it. A trailing "/" is added to ID when
missing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withContainer(args[0], func(c *notes.Container) error {
				return c.RemoveDir(args[1])
			})
			if err == nil {
				log.WithFields(log.Fields{"container": args[0], "path": notes.DirPath(args[1])}).Info("removed directory")
			}
			return err
		},
	}
}
