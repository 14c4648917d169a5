package cmd

import (
	"path/filepath"
	"strings"

	"github.com/dendrascience/notesfs/notes"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewExportCmd creates and returns the export subcommand, which writes the
// live tree of a container to a host directory.
func NewExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FS DIR",
		Short: "Copy the contents of a container to a host directory",
		Long: `Write every live directory and file of the container FS below the host
directory DIR, creating DIR if needed. Existing host files are replaced.
Files stored base64 encoded are written as stored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsPath, root := args[0], args[1]

			var files int
			err := withContainer(fsPath, func(c *notes.Container) error {
				t, err := c.Tree(true)
				if err != nil {
					return err
				}
				if err := hostFs.MkdirAll(root, 0o755); err != nil {
					return errors.Wrapf(err, "creating %s", root)
				}
				return t.Walk(func(_ notes.NodeID, n *notes.Node) error {
					host := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(n.Path, string(notes.Separator))))
					switch n.Kind {
					case notes.KindDirectory:
						if err := hostFs.MkdirAll(host, 0o755); err != nil {
							return errors.Wrapf(err, "creating %s", host)
						}
					case notes.KindFile:
						if err := afero.WriteFile(hostFs, host, n.Content, 0o644); err != nil {
							return errors.Wrapf(err, "writing %s", host)
						}
						files++
					}
					return nil
				})
			})
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{"container": fsPath, "target": root, "files": files}).Info("exported container")
			return nil
		},
	}
}
