package cmd

import (
	"fmt"

	"github.com/dendrascience/notesfs/notes"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewDefragCmd creates and returns the defrag subcommand.
func NewDefragCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defrag FS",
		Short: "Compact a container",
		Long: `Rewrite the container FS without tombstones, with every directory's
entries in canonical order: subdirectories first, then files, each sorted
by name.

The container is truncated and rewritten in place. Do not interrupt it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats notes.DefragStats
			err := withContainer(args[0], func(c *notes.Container) (err error) {
				stats, err = c.Defrag()
				return err
			})
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"container":  args[0],
				"before":     stats.BytesBefore,
				"after":      stats.BytesAfter,
				"tombstones": stats.Tombstones,
			}).Info("defragmented container")
			fmt.Fprintf(cmd.OutOrStdout(), "Defragmented %s: %s -> %s, dropped %d tombstones (%d directories, %d files)\n",
				args[0], humanize.IBytes(uint64(stats.BytesBefore)), humanize.IBytes(uint64(stats.BytesAfter)),
				stats.Tombstones, stats.Directories, stats.Files)
			return nil
		},
	}
}
