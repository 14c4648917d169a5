package cmd

import (
	"fmt"

	"github.com/dendrascience/notesfs/notes"
	"github.com/dendrascience/notesfs/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewCopyInCmd creates and returns the copyin subcommand, which stores a
// host file in a container.
func NewCopyInCmd() *cobra.Command {
	var (
		parents bool
		force   bool
		binary  bool
	)

	cmd := &cobra.Command{
		Use:   "copyin FS EF IF",
		Short: "Copy a host file into a container",
		Long: `Copy the host file EF into the container FS as the internal file IF.

The parent directory of IF must already exist unless --parents is given.
An existing IF is only replaced with --force. Files that are not plain
UTF-8 text are stored base64 encoded; --binary forces the encoding for
any file, and copyout --binary reverses it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("parents") {
				parents = cfg.CreateParents
			}
			if !cmd.Flags().Changed("force") {
				force = cfg.Overwrite
			}
			fsPath, hostPath, internalPath := args[0], args[1], args[2]

			content, encoded, err := readHostFile(hostPath, binary)
			if err != nil {
				return err
			}
			err = withContainer(fsPath, func(c *notes.Container) error {
				return c.Insert(internalPath, content, notes.InsertOptions{Parents: parents, Overwrite: force})
			})
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"container": fsPath,
				"path":      internalPath,
				"bytes":     len(content),
				"base64":    encoded,
			}).Info("copied file in")
			if encoded && !binary {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is not text; stored base64 encoded, use copyout --binary to restore it\n", hostPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "Declare the parent directory if it is missing")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing file")
	cmd.Flags().BoolVarP(&binary, "binary", "b", false, "Store the file base64 encoded")

	return cmd
}

// readHostFile reads a host file for insertion, base64 encoding it when
// binary is set or when it is not text and AutoBinary is configured.
func readHostFile(path string, binary bool) (content []byte, encoded bool, err error) {
	info, err := hostFs.Stat(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading %s", path)
	}
	if info.IsDir() {
		return nil, false, errors.Wrap(util.ErrExpectedFile, path)
	}
	data, err := afero.ReadFile(hostFs, path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading %s", path)
	}

	switch {
	case binary:
		return util.EncodeBase64Lines(data, notes.MaxPayloadLength), true, nil
	case util.IsText(data):
		return data, false, nil
	case cfg.AutoBinary:
		return util.EncodeBase64Lines(data, notes.MaxPayloadLength), true, nil
	default:
		return nil, false, errors.Errorf("%s is not text; use --binary to store it", path)
	}
}
