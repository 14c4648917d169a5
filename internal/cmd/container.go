package cmd

import (
	"github.com/dendrascience/notesfs/config"
	"github.com/dendrascience/notesfs/notes"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// hostFs is the filesystem holding containers and the host files copied in
// and out of them. Tests swap in an afero.MemMapFs.
var hostFs afero.Fs = afero.NewOsFs()

// cfg is the effective configuration, loaded by the root command.
var cfg = config.NewDefaultConfig()

func containerOptions() notes.Options {
	return notes.Options{GzipLevel: cfg.GzipLevel}
}

// withContainer opens the container at path, runs fn and closes it again,
// recompressing it if fn changed a .notes.gz container.
func withContainer(path string, fn func(*notes.Container) error) (err error) {
	c, err := notes.Open(hostFs, path, containerOptions())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := c.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "closing %s", path)
		}
	}()
	return fn(c)
}
