package cmd

import (
	"github.com/dendrascience/notesfs/notes"
	"github.com/dendrascience/notesfs/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewCopyOutCmd creates and returns the copyout subcommand, which writes an
// internal file out to the host.
func NewCopyOutCmd() *cobra.Command {
	var binary bool

	cmd := &cobra.Command{
		Use:   "copyout FS IF EF",
		Short: "Copy a file out of a container",
		Long: `Copy the internal file IF of the container FS to the host file EF,
replacing EF if it exists. Use --binary for files stored base64 encoded.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsPath, internalPath, hostPath := args[0], args[1], args[2]

			var content []byte
			err := withContainer(fsPath, func(c *notes.Container) (err error) {
				content, err = c.Extract(internalPath)
				return err
			})
			if err != nil {
				return err
			}
			if binary {
				if content, err = util.DecodeBase64Lines(content); err != nil {
					return errors.Wrap(err, internalPath)
				}
			}
			if err := afero.WriteFile(hostFs, hostPath, content, 0o644); err != nil {
				return errors.Wrapf(err, "writing %s", hostPath)
			}

			log.WithFields(log.Fields{
				"container": fsPath,
				"path":      internalPath,
				"bytes":     len(content),
			}).Info("copied file out")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&binary, "binary", "b", false, "Decode a base64 encoded file")

	return cmd
}
