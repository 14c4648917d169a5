package cmd

import (
	"fmt"

	"github.com/dendrascience/notesfs/notes"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrInvalidContainer is returned by validate when problems were found and
// not repaired.
var ErrInvalidContainer = errors.New("container is invalid")

// NewValidateCmd creates and returns the validate subcommand, which checks
// containers for structural problems.
func NewValidateCmd() *cobra.Command {
	var (
		verbose bool
		repair  bool
	)

	cmd := &cobra.Command{
		Use:   "validate FS...",
		Short: "Validate containers for corruption and consistency",
		Long: `Validate one or more containers for structural problems.

Every line is checked: unknown markers, empty lines, content outside a
file, malformed paths, duplicate records and files under undeclared
directories are all reported with their line number.

With --repair each offending line is tombstoned so the container parses
again. Everything else, tombstones included, is kept as it was; run
defrag afterwards to drop the damaged lines for good.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var totalIssues, totalContainers int

			for _, path := range args {
				totalContainers++
				if verbose {
					fmt.Fprintf(out, "Validating container: %s\n", path)
				}

				var issues []notes.Issue
				err := withContainer(path, func(c *notes.Container) (err error) {
					if repair {
						issues, err = c.Repair()
					} else {
						issues, err = c.Validate()
					}
					return err
				})
				if err != nil {
					return err
				}

				if len(issues) == 0 {
					if verbose {
						fmt.Fprintf(out, "Container %s is valid\n", path)
					}
					continue
				}
				fmt.Fprintf(out, "Container %s has %d errors:\n", path, len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
				if repair {
					log.WithFields(log.Fields{"container": path, "lines": len(issues)}).Info("repaired container")
					fmt.Fprintf(out, "Repaired %s by tombstoning %d lines\n", path, len(issues))
				} else {
					totalIssues += len(issues)
				}
			}

			fmt.Fprintf(out, "\nValidation complete:\n")
			fmt.Fprintf(out, "  Containers checked: %d\n", totalContainers)
			fmt.Fprintf(out, "  Unrepaired errors: %d\n", totalIssues)

			if totalIssues > 0 {
				return ErrInvalidContainer
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVarP(&repair, "repair", "r", false, "Tombstone malformed lines")

	return cmd
}
