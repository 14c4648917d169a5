package cmd

import (
	"fmt"
	"io"

	"github.com/dendrascience/notesfs/notes"
	"github.com/dendrascience/notesfs/util"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewInfoCmd creates and returns the info subcommand, which summarises a
// container.
func NewInfoCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info FS",
		Short: "Show container statistics",
		Long: `Show statistics for the container FS: the number of live directories and
files, the size of their content, and how much of the log is taken up by
tombstones that defrag would reclaim.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m util.Metadata
			err := withContainer(args[0], func(c *notes.Container) (err error) {
				m, err = c.Metadata()
				return err
			})
			if err != nil {
				return err
			}

			switch format {
			case "table":
				infoTable(cmd.OutOrStdout(), m)
				return nil
			case "json":
				return m.WriteJSON(cmd.OutOrStdout())
			case "yaml":
				return m.WriteYAML(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

func infoTable(out io.Writer, m util.Metadata) {
	var table = tablewriter.NewWriter(out)
	table.Header([]string{"Property", "Value"})

	table.Append([]string{"Path", m.Path})
	if m.Compressed {
		table.Append([]string{"Compressed size", humanize.IBytes(uint64(m.CompressedSize))})
	}
	table.Append([]string{"Log size", humanize.IBytes(uint64(m.LogSize))})
	table.Append([]string{"Directories", humanize.Comma(int64(m.DirectoryCount))})
	table.Append([]string{"Files", humanize.Comma(int64(m.FileCount))})
	table.Append([]string{"Content", humanize.IBytes(uint64(m.ContentSize))})
	table.Append([]string{"Tombstones", humanize.Comma(int64(m.TombstoneCount))})
	table.Append([]string{"Garbage", fmt.Sprintf("%s (%.1f%%)", humanize.IBytes(uint64(m.TombstoneSize)), 100*m.GarbageRatio())})
	table.Append([]string{"Modified", humanize.Time(m.Modified)})
	table.Append([]string{"Version", m.NotesVersion})
	table.Render()
}
