package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/notesfs/notes"
	"github.com/dendrascience/notesfs/notesfs"
	"github.com/dendrascience/notesfs/version"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewMountCmd creates and returns the mount subcommand, which serves a
// container read-only over FUSE.
func NewMountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mount FS MOUNTPOINT",
		Short: "Mount a container read-only",
		Long: `Mount the container FS read-only at MOUNTPOINT.

The container is parsed once at mount time. Send SIGHUP to re-read it
after changing it with other notes commands; SIGINT or SIGTERM unmounts.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMount(args[0], args[1])
		},
	}
}

func runMount(fsPath, mountpoint string) error {
	absFS, err := filepath.Abs(fsPath)
	if err != nil {
		return err
	}
	absMount, err := filepath.Abs(mountpoint)
	if err != nil {
		return err
	}
	if pathWithin(absFS, absMount) {
		return errors.Errorf("mountpoint %s would hide the container %s", mountpoint, fsPath)
	}

	t, info, err := loadSnapshot(fsPath)
	if err != nil {
		return err
	}
	filesystem := notesfs.NewFS(t, info.ModTime())

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("notes"),
		fuse.Subtype("notesfs"),
		fuse.ReadOnly(),
	)
	if err != nil {
		return errors.Wrapf(err, "mounting %s", mountpoint)
	}
	defer c.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)
	done := make(chan struct{})
	defer close(done)

	go handleSignals(signals, done, func() {
		t, info, err := loadSnapshot(fsPath)
		if err != nil {
			log.WithFields(log.Fields{"container": fsPath, "err": err}).Error("reload failed; keeping previous tree")
			return
		}
		filesystem.Reload(t, info.ModTime())
		log.WithField("container", fsPath).Info("reloaded container")
	}, func() {
		if err := fuse.Unmount(mountpoint); err != nil {
			log.WithField("err", err).Warn("unmount failed")
		}
	})

	log.WithFields(log.Fields{
		"version":    version.Get().String(),
		"container":  fsPath,
		"mountpoint": mountpoint,
	}).Info("mounted container")
	if err := fs.Serve(c, filesystem); err != nil {
		return errors.Wrap(err, "serving filesystem")
	}
	return nil
}

// handleSignals reloads on SIGHUP and unmounts on any other signal. It
// returns after unmounting or once done is closed.
func handleSignals(signals <-chan os.Signal, done <-chan struct{}, reload, unmount func()) {
	for {
		select {
		case <-done:
			return
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				reload()
				continue
			}
			log.WithField("signal", sig).Info("received signal, unmounting")
			unmount()
			return
		}
	}
}

func loadSnapshot(fsPath string) (*notes.Tree, os.FileInfo, error) {
	var (
		t    *notes.Tree
		info os.FileInfo
	)
	err := withContainer(fsPath, func(c *notes.Container) (err error) {
		if info, err = hostFs.Stat(fsPath); err != nil {
			return err
		}
		t, err = c.Tree(true)
		return err
	})
	return t, info, err
}

// pathWithin reports whether path is dir itself or lies below it. Both must
// be absolute and clean.
func pathWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(dir, string(filepath.Separator))+string(filepath.Separator))
}
