package cmd

import (
	"io"
	"strconv"

	"github.com/dendrascience/notesfs/notes"
	"github.com/dendrascience/notesfs/util"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewListCmd creates and returns the list subcommand, which prints the
// records of a container in log order.
func NewListCmd() *cobra.Command {
	var (
		showDeleted bool
		checksum    bool
	)

	cmd := &cobra.Command{
		Use:   "list FS",
		Short: "List the records of a container",
		Long: `List every directory and file record of the container in the order they
appear in the log, one row per record.

Directories show the number of live entries they contain, files their
size and number of content lines. Tombstoned records are hidden unless
--deleted is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("deleted") {
				showDeleted = cfg.ShowDeleted
			}
			return withContainer(args[0], func(c *notes.Container) error {
				t, err := c.Tree(true)
				if err != nil {
					return err
				}
				listRecords(cmd.OutOrStdout(), t, showDeleted, checksum)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&showDeleted, "deleted", "d", false, "Include tombstoned records")
	cmd.Flags().BoolVar(&checksum, "checksum", false, "Show a SHA-256 of each file's content")

	return cmd
}

func listRecords(out io.Writer, t *notes.Tree, showDeleted, checksum bool) {
	var table = tablewriter.NewWriter(out)

	var headers = []string{"Line", "Type", "Entries", "Size", "Path"}
	if checksum {
		headers = append(headers, "Checksum")
	}
	table.Header(headers)

	for _, id := range t.Records() {
		var n = t.Node(id)
		if n.Deleted && !showDeleted {
			continue
		}

		var kind, entries, size string
		switch {
		case n.Deleted:
			kind = "#"
		case n.Kind == notes.KindDirectory:
			kind, entries = "d", strconv.Itoa(len(n.Children))
		case n.Kind == notes.KindFile:
			kind = "-"
			entries = strconv.Itoa(len(notes.ContentRecords(n.Content)))
			size = humanize.IBytes(uint64(len(n.Content)))
		}

		var row = []string{strconv.Itoa(n.Line), kind, entries, size, n.Path}
		if checksum {
			if n.Kind == notes.KindFile && !n.Deleted {
				row = append(row, util.ShortHash(util.ContentHash(n.Content)))
			} else {
				row = append(row, "")
			}
		}
		table.Append(row)
	}
	table.Render()
}
