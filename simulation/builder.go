package simulation

import (
	"github.com/rs/xid"

	"github.com/sarchlab/hddsim/datarecording"
	"github.com/sarchlab/hddsim/monitoring"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
	dataRecorder   datarecording.DataRecorder
}

// MakeBuilder creates a new builder. By default, the simulation neither
// records accesses nor starts a monitoring server.
func MakeBuilder() Builder {
	return Builder{}
}

// WithMonitoring makes the simulation start a monitoring server.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithDataRecording makes the simulation record every access into a sqlite
// database.
func (b Builder) WithDataRecording() Builder {
	b.recordingOn = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
// The ".sqlite3" extension is appended.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithDataRecorder makes the simulation record into an existing recorder.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.recordingOn = true
	b.dataRecorder = r

	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file cannot be set when recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{
		id:            xid.New().String(),
		compNameIndex: make(map[string]int),
	}

	if b.recordingOn {
		s.dataRecorder = b.dataRecorder
		if s.dataRecorder == nil {
			outputPath := b.outputFileName
			if outputPath == "" {
				outputPath = "hddsim_" + s.id
			}

			s.dataRecorder = datarecording.New(outputPath)
		}
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().
			WithPortNumber(b.monitorPort).
			WithLock(&s.lock)

		url, err := s.monitor.StartServer()
		if err != nil {
			return nil, err
		}

		s.monitorURL = url
	}

	return s, nil
}
