package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/hddsim/disk/cache"
)

var defaultCacheTestSizes = []int{2, 7, 16}

func newCacheTestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cachetest [size...]",
		Short: "Run a fixed access pattern against caches of several sizes.",
		Long: `cachetest accesses block 0, blocks 0-9 twice, every fourth ` +
			`block from 0 to 16, and block 0 six times, then dumps the ` +
			`cache. The sizes default to 2, 7 and 16 blocks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes := defaultCacheTestSizes
			if len(args) > 0 {
				sizes = make([]int, 0, len(args))

				for _, arg := range args {
					size, err := strconv.Atoi(arg)
					if err != nil {
						return fmt.Errorf("invalid cache size %q", arg)
					}

					sizes = append(sizes, size)
				}
			}

			debug, _ := cmd.Flags().GetBool("debug")

			for _, size := range sizes {
				err := runCacheTest(cmd.OutOrStdout(), size, debug)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().Bool("debug", false, "Dump the cache after every access.")

	return cmd
}

func cacheTestPattern() []uint64 {
	blocks := []uint64{0}

	for j := 0; j < 2; j++ {
		for i := uint64(0); i < 10; i++ {
			blocks = append(blocks, i)
		}
	}

	for i := uint64(0); i < 20; i += 4 {
		blocks = append(blocks, i)
	}

	for j := 0; j < 6; j++ {
		blocks = append(blocks, 0)
	}

	return blocks
}

func runCacheTest(w io.Writer, size int, debug bool) error {
	fmt.Fprintln(w,
		"-----------------------------------------------------------")

	c, err := cache.New(size)
	if err != nil {
		return err
	}

	if debug {
		if err := c.Dump(w); err != nil {
			return err
		}
	}

	for _, b := range cacheTestPattern() {
		c.Access(b)

		if debug {
			if err := c.Dump(w); err != nil {
				return err
			}
		}
	}

	if !debug {
		if err := c.Dump(w); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w)

	return nil
}
