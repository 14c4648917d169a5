package cmd

import (
	"fmt"

	"github.com/dendrascience/notesfs/notes"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewInitCmd creates and returns the init subcommand, which creates an empty
// container.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init FS",
		Short: "Create an empty container",
		Long: `Create an empty container at FS holding only the format header.

FS must end in .notes, or .notes.gz for a compressed container, and must
not exist yet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := notes.Create(hostFs, args[0], containerOptions())
			if err != nil {
				return err
			}
			if err := c.Close(); err != nil {
				return err
			}
			log.WithField("container", args[0]).Info("created container")
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", args[0])
			return nil
		},
	}
}
