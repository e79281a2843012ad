package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/hddsim/disk/hdd"
	"github.com/sarchlab/hddsim/simulation"
	"github.com/sarchlab/hddsim/trace"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a trace against the disk.",
		Long: `run replays a trace against the disk and prints the latency ` +
			`of every request. Each trace line is ` +
			`"<timestamp> <r|w> <address> <length> [comment]", with the ` +
			`timestamp in seconds and the address and length in bytes. ` +
			`The trace is read from stdin if no file is given.`,
		Args: cobra.NoArgs,
		RunE: runTrace,
	}

	cmd.Flags().StringP("trace", "t", "", "Trace file. Reads stdin if empty.")
	cmd.Flags().Bool("record", false,
		"Record every access into a sqlite database.")
	cmd.Flags().String("output", "",
		"Name of the database file, without the .sqlite3 extension.")
	cmd.Flags().Bool("monitor", false, "Start the monitoring server.")
	cmd.Flags().Int("monitor-port", 0,
		"Port of the monitoring server. A random port is used if 0.")
	cmd.Flags().Bool("open-browser", false,
		"Open the disk status page of the monitoring server in a browser.")
	cmd.Flags().Bool("wait", false,
		"Keep the monitoring server running after the replay until "+
			"interrupted.")
	cmd.Flags().Bool("dump-cache", false,
		"Dump the cache content after the replay.")

	return cmd
}

func runTrace(cmd *cobra.Command, _ []string) error {
	d, err := buildDisk(cmd)
	if err != nil {
		return err
	}

	records, err := readTrace(cmd)
	if err != nil {
		return err
	}

	s, err := buildSimulation(cmd)
	if err != nil {
		return err
	}

	s.RegisterDevice(d)

	err = replay(cmd, s, d, records)
	if termErr := s.Terminate(); err == nil {
		err = termErr
	}

	return err
}

func replay(
	cmd *cobra.Command,
	s *simulation.Simulation,
	d *hdd.Comp,
	records []trace.Record,
) error {
	out := cmd.OutOrStdout()

	if err := openMonitor(cmd, s); err != nil {
		warn("Failed to open browser: %v\n", err)
	}

	printStandardTests(out, d)

	summary, err := s.Replay(deviceName, records, func(res simulation.Result) {
		printResult(out, res, d.Verbose())
	})
	if err != nil {
		return err
	}

	latency, _ := s.DeviceLatency(deviceName)
	printSummary(out, summary, latency, d)

	if dump, _ := cmd.Flags().GetBool("dump-cache"); dump {
		if err := d.DumpCache(out); err != nil {
			return err
		}
	}

	waitForInterrupt(cmd, s)

	return nil
}

func readTrace(cmd *cobra.Command) ([]trace.Record, error) {
	path, _ := cmd.Flags().GetString("trace")

	var in io.Reader = cmd.InOrStdin()

	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), "reading trace from stdin...\n\n")
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		in = f
	}

	return trace.ReadAll(in)
}

func buildSimulation(cmd *cobra.Command) (*simulation.Simulation, error) {
	flags := cmd.Flags()
	b := simulation.MakeBuilder()

	if record, _ := flags.GetBool("record"); record {
		b = b.WithDataRecording()

		if output, _ := flags.GetString("output"); output != "" {
			b = b.WithOutputFileName(output)
		}
	}

	if monitor, _ := flags.GetBool("monitor"); monitor {
		b = b.WithMonitoring()

		if port, _ := flags.GetInt("monitor-port"); port != 0 {
			b = b.WithMonitorPort(port)
		}
	}

	return b.Build()
}

func openMonitor(cmd *cobra.Command, s *simulation.Simulation) error {
	open, _ := cmd.Flags().GetBool("open-browser")
	if !open || s.GetMonitor() == nil {
		return nil
	}

	return browser.OpenURL(s.MonitorURL() + "/api/disk/" + deviceName)
}

func waitForInterrupt(cmd *cobra.Command, s *simulation.Simulation) {
	wait, _ := cmd.Flags().GetBool("wait")
	if !wait || s.GetMonitor() == nil {
		return
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	warn("Replay done. Monitoring at %s, press Ctrl-C to exit.\n",
		s.MonitorURL())

	<-ctx.Done()
}

func init() {
	// Keep the output of the browser out of the report.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}
