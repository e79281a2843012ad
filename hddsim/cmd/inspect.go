package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/hddsim/datarecording"
	"github.com/sarchlab/hddsim/disk/accesstrace"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <recording.sqlite3>",
		Short: "Print the accesses stored in a recording made by run --record.",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectRecording,
	}

	cmd.Flags().String("device", "", "Only print the accesses of this device.")
	cmd.Flags().Bool("misses", false,
		"Only print the accesses with at least one cache miss.")
	cmd.Flags().Int("limit", 20, "Maximum number of accesses to print.")
	cmd.Flags().Int("offset", 0, "Number of accesses to skip.")

	return cmd
}

func inspectRecording(cmd *cobra.Command, args []string) error {
	// The reader would create an empty database for a missing file.
	if _, err := os.Stat(args[0]); err != nil {
		return err
	}

	reader, err := datarecording.NewReader(args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	reader.MapTable(accesstrace.AccessTable, accesstrace.AccessEntry{})

	params, err := inspectQuery(cmd)
	if err != nil {
		return err
	}

	rows, total, err := reader.Query(cmd.Context(),
		accesstrace.AccessTable, params)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	printAccesses(cmd.OutOrStdout(), rows, total, params.Offset)

	return nil
}

func inspectQuery(cmd *cobra.Command) (datarecording.QueryParams, error) {
	flags := cmd.Flags()
	params := datarecording.QueryParams{OrderBy: "StartTime, rowid"}

	var conditions []string

	if device, _ := flags.GetString("device"); device != "" {
		conditions = append(conditions, "Location = ?")
		params.Args = append(params.Args, device)
	}

	if misses, _ := flags.GetBool("misses"); misses {
		conditions = append(conditions, "Misses > 0")
	}

	for i, c := range conditions {
		if i > 0 {
			params.Where += " AND "
		}

		params.Where += c
	}

	params.Limit, _ = flags.GetInt("limit")
	params.Offset, _ = flags.GetInt("offset")

	if params.Limit < 0 || params.Offset < 0 {
		return params, errors.New("limit and offset must not be negative")
	}

	return params, nil
}

func printAccesses(w io.Writer, rows []any, total, offset int) {
	fmt.Fprintf(w, "%-8s %-5s %10s %5s %5s %4s %14s %14s %4s %4s\n",
		"device", "op", "block", "n", "track", "surf",
		"start (ms)", "latency (ms)", "hit", "miss")

	for _, row := range rows {
		e := row.(*accesstrace.AccessEntry)
		fmt.Fprintf(w, "%-8s %-5s %10d %5d %5d %4d %14.7f %14.7f %4d %4d\n",
			e.Location, e.Op, e.Block, e.NBlocks, e.Track, e.Surface,
			e.StartTime*1e3, (e.EndTime-e.StartTime)*1e3, e.Hits, e.Misses)
	}

	fmt.Fprintf(w, "\n%d of %d accesses shown, starting at %d\n",
		len(rows), total, offset)
}
