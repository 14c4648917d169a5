package cmd

import (
	"github.com/dendrascience/notesfs/notes"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewMkdirCmd creates and returns the mkdir subcommand.
func NewMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir FS ID",
		Short: "Create a directory in a container",
		Long: `Create the internal directory ID in the container FS. A trailing "/" is
added to ID when missing. Missing intermediate directories are implied by
the new record.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withContainer(args[0], func(c *notes.Container) error {
				return c.Mkdir(args[1])
			})
			if err == nil {
				log.WithFields(log.Fields{"container": args[0], "path": notes.DirPath(args[1])}).Info("created directory")
			}
			return err
		},
	}
}
