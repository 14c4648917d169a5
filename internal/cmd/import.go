package cmd

import (
	"os"
	"path/filepath"

	"github.com/dendrascience/notesfs/notes"
	"github.com/dendrascience/notesfs/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewImportCmd creates and returns the import subcommand, which copies a
// host directory tree into a container.
func NewImportCmd() *cobra.Command {
	var (
		binary bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "import FS DIR",
		Short: "Copy a host directory tree into a container",
		Long: `Copy every file and directory below the host directory DIR into the
container FS, keeping their relative paths.

A missing FS is created and written in canonical order in a single pass.
An existing FS has each file appended in turn; existing files are only
replaced with --force. Symbolic links are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("force") {
				force = cfg.Overwrite
			}
			fsPath, root := args[0], args[1]

			entries, err := scanHostTree(root, binary)
			if err != nil {
				return err
			}

			exists, err := afero.Exists(hostFs, fsPath)
			if err != nil {
				return errors.Wrapf(err, "stat %s", fsPath)
			}
			if exists {
				err = importInto(fsPath, entries, force)
			} else {
				err = importNew(fsPath, entries)
			}
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"container": fsPath,
				"source":    root,
				"entries":   len(entries),
			}).Info("imported directory tree")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&binary, "binary", "b", false, "Store every file base64 encoded")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace existing files")

	return cmd
}

// hostEntry is a file or directory found below an import root. Directory
// paths carry the trailing separator.
type hostEntry struct {
	path    string
	isDir   bool
	content []byte
}

func scanHostTree(root string, binary bool) ([]hostEntry, error) {
	info, err := hostFs.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Wrap(util.ErrExpectedDirectory, root)
	}

	var entries []hostEntry
	err = afero.Walk(hostFs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}
		internal := filepath.ToSlash(rel)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			log.WithFields(log.Fields{"path": path, "err": util.ErrUnexpectedSymlink}).Warn("skipping symlink")
		case info.IsDir():
			entries = append(entries, hostEntry{path: notes.DirPath(internal), isDir: true})
		default:
			content, _, err := readHostFile(path, binary)
			if err != nil {
				return err
			}
			entries = append(entries, hostEntry{path: internal, content: content})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	return entries, nil
}

func importNew(fsPath string, entries []hostEntry) error {
	t := notes.NewTree()
	for _, e := range entries {
		var err error
		if e.isDir {
			_, err = t.MkdirAll(e.path)
		} else {
			_, err = t.AddFile(e.path, e.content)
		}
		if err != nil {
			return err
		}
	}
	c, err := notes.CreateFromTree(hostFs, fsPath, t, containerOptions())
	if err != nil {
		return err
	}
	return c.Close()
}

func importInto(fsPath string, entries []hostEntry, force bool) error {
	return withContainer(fsPath, func(c *notes.Container) error {
		for _, e := range entries {
			var err error
			if e.isDir {
				if err = c.Mkdir(e.path); errors.Is(err, notes.ErrDuplicateRecord) {
					err = nil
				}
			} else {
				err = c.Insert(e.path, e.content, notes.InsertOptions{Parents: true, Overwrite: force})
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
