package cmd

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dendrascience/notesfs/notes"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates and returns the seed subcommand, which generates a
// container full of test files.
func NewSeedCmd() *cobra.Command {
	var (
		fileCount int
		seed      uint64
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "seed FS",
		Short: "Generate a container of test files with a dated directory structure",
		Long: `Generate a new container FS holding test files for exercising notes.

Files are placed in a YYYY/MM/DD/HH/mm/SS directory structure, most of
them at the deepest level. Each file holds a few UUID lines drawn from a
small pool. The same --seed always produces the same container.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "Generating %d test files in %s\n", fileCount, args[0])
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			t, dirs, err := seedTree(fileCount, seed)
			if err != nil {
				return err
			}
			c, err := notes.CreateFromTree(hostFs, args[0], t, containerOptions())
			if err != nil {
				return err
			}
			if err := c.Close(); err != nil {
				return err
			}

			log.WithFields(log.Fields{"container": args[0], "files": fileCount, "directories": dirs}).Info("seeded container")
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "Successfully created %d files across %d directories\n", fileCount, dirs)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&fileCount, "count", "c", 1000, "Number of files to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one from the clock)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

// seedTree builds a tree of fileCount files, returning it with the number of
// distinct directories holding files.
func seedTree(fileCount int, seed uint64) (*notes.Tree, int, error) {
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	// UUIDs derived from the rng keep the output reproducible.
	uuidPool := make([]string, 50)
	for i := range uuidPool {
		var b [16]byte
		for j := range b {
			b[j] = byte(rng.UintN(256))
		}
		u, err := uuid.FromBytes(b[:])
		if err != nil {
			return nil, 0, err
		}
		uuidPool[i] = u.String()
	}

	t := notes.NewTree()
	dirFileCounts := make(map[string]int)
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for created := 0; created < fileCount; {
		fileTime := baseTime.AddDate(0, 0, rng.IntN(365)).
			Add(time.Duration(rng.IntN(24*60*60)) * time.Second)

		// Most files at the deepest level.
		parts := []string{
			fmt.Sprintf("%04d", fileTime.Year()),
			fmt.Sprintf("%02d", fileTime.Month()),
			fmt.Sprintf("%02d", fileTime.Day()),
			fmt.Sprintf("%02d", fileTime.Hour()),
			fmt.Sprintf("%02d", fileTime.Minute()),
			fmt.Sprintf("%02d", fileTime.Second()),
		}
		var depth int
		switch level := rng.IntN(100); {
		case level < 5:
			depth = 1
		case level < 10:
			depth = 2
		case level < 15:
			depth = 3
		case level < 25:
			depth = 4
		case level < 40:
			depth = 5
		default:
			depth = 6
		}
		var dir string
		for _, p := range parts[:depth] {
			dir += p + string(notes.Separator)
		}
		if dirFileCounts[dir] >= 1000 {
			continue
		}

		ext := ".json"
		if rng.IntN(2) == 1 {
			ext = ".txt"
		}
		name := dir + fmt.Sprintf("%08x%s", rng.Uint32(), ext)
		if _, exists := t.Lookup(name); exists {
			continue
		}

		var content []byte
		for range 1 + rng.IntN(3) {
			content = append(content, uuidPool[rng.IntN(len(uuidPool))]...)
			content = append(content, '\n')
		}
		if _, err := t.AddFile(name, content); err != nil {
			return nil, 0, err
		}
		dirFileCounts[dir]++
		created++
	}
	return t, len(dirFileCounts), nil
}
