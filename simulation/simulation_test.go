package simulation

import (
	"context"
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/hddsim/datarecording"
	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/disk/accesstrace"
	"github.com/sarchlab/hddsim/disk/hdd"
	"github.com/sarchlab/hddsim/sim"
	"github.com/sarchlab/hddsim/trace"
)

func smallDisk(name string) *hdd.Comp {
	d, err := hdd.MakeBuilder().
		WithSurfaces(2).
		WithTracksPerSurface(4).
		WithSectorsPerTrack(4, 10).
		WithRPM(6000).
		WithSeekTime(0.001, 0.0001).
		WithCacheBlocks(4).
		Build(name)
	Expect(err).NotTo(HaveOccurred())

	return d
}

var _ = Describe("Simulation", func() {
	var (
		mockCtrl   *gomock.Controller
		simulation *Simulation
		device     *MockDevice
	)

	BeforeEach(func() {
		var err error

		mockCtrl = gomock.NewController(GinkgoT())
		simulation, err = MakeBuilder().Build()
		Expect(err).NotTo(HaveOccurred())

		device = NewMockDevice(mockCtrl)
		device.EXPECT().Name().Return("Disk").AnyTimes()
		device.EXPECT().BytesPerSector().Return(uint32(512)).AnyTimes()
		device.EXPECT().Hooks().Return(nil).AnyTimes()
		device.EXPECT().AcceptHook(gomock.Any()).AnyTimes()
	})

	AfterEach(func() {
		Expect(simulation.Terminate()).To(Succeed())
		mockCtrl.Finish()
	})

	It("should register a device", func() {
		simulation.RegisterDevice(device)

		Expect(simulation.GetDeviceByName("Disk")).To(BeIdenticalTo(device))
		Expect(simulation.GetDeviceByName("Other")).To(BeNil())
		Expect(simulation.Devices()).To(HaveLen(1))

		_, found := simulation.DeviceLatency("Other")
		Expect(found).To(BeFalse())
		Expect(simulation.GetDataRecorder()).To(BeNil())
		Expect(simulation.GetMonitor()).To(BeNil())
	})

	It("should refuse duplicate device names", func() {
		simulation.RegisterDevice(device)

		Expect(func() { simulation.RegisterDevice(device) }).To(Panic())
	})

	It("should refuse to replay on unknown devices", func() {
		_, err := simulation.Replay("Disk", nil, nil)

		Expect(err).To(MatchError(disk.ErrInvalidArgument))
	})

	It("should convert bytes to blocks and count failures", func() {
		simulation.RegisterDevice(device)

		gomock.InOrder(
			device.EXPECT().Read(sim.VTimeInSec(1), uint64(2), uint64(3)).
				Return(sim.VTimeInSec(1.5), nil),
			device.EXPECT().Write(sim.VTimeInSec(2), uint64(0), uint64(1)).
				Return(sim.VTimeInSec(0), disk.ErrOutOfRange),
			device.EXPECT().Write(sim.VTimeInSec(3), uint64(4), uint64(1)).
				Return(sim.VTimeInSec(3.25), nil),
		)

		records := []trace.Record{
			{Time: 1, Op: disk.OpRead, Address: 1024, Length: 1025},
			{Time: 2, Op: disk.OpWrite, Address: 0, Length: 1},
			{Time: 3, Op: disk.OpWrite, Address: 2048, Length: 512},
		}

		var results []Result
		summary, err := simulation.Replay("Disk", records, func(r Result) {
			results = append(results, r)
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Reads).To(Equal(uint64(1)))
		Expect(summary.Writes).To(Equal(uint64(2)))
		Expect(summary.Operations()).To(Equal(uint64(3)))
		Expect(summary.Failures).To(Equal(uint64(1)))
		Expect(float64(summary.TotalTime)).To(BeNumerically("~", 0.75, 1e-12))

		Expect(results).To(HaveLen(3))
		Expect(results[1].Err).To(MatchError(disk.ErrOutOfRange))
		Expect(results[1].Latency()).To(BeZero())
		Expect(results[2].Latency()).To(Equal(sim.VTimeInSec(0.25)))
	})

	It("should count the steps of a replay", func() {
		d := smallDisk("Real")
		simulation.RegisterDevice(d)

		records := []trace.Record{
			{Time: 0, Op: disk.OpRead, Address: 0, Length: 10 * 512},
			{Time: 1, Op: disk.OpRead, Address: 9 * 512, Length: 512},
		}

		summary, err := simulation.Replay("Real", records, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Steps).To(Equal(map[string]uint64{
			hdd.StepSeek:        1,
			hdd.StepTrackSwitch: 1,
			hdd.StepCacheHit:    1,
			hdd.StepCacheMiss:   1,
		}))

		latency, found := simulation.DeviceLatency("Real")
		Expect(found).To(BeTrue())
		Expect(latency.Count).To(Equal(uint64(2)))
		Expect(latency.Min).To(BeNumerically("<", latency.Max))

		summary, err = simulation.Replay("Real", records[1:], nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Steps[hdd.StepCacheHit]).To(Equal(uint64(1)))
		Expect(summary.Steps[hdd.StepCacheMiss]).To(BeZero())
	})
})

var _ = Describe("Simulation with recording", func() {
	It("should record every access", func() {
		path := filepath.Join(GinkgoT().TempDir(), "replay")
		simulation, err := MakeBuilder().
			WithDataRecording().
			WithOutputFileName(path).
			Build()
		Expect(err).NotTo(HaveOccurred())

		simulation.RegisterDevice(smallDisk("A"))
		simulation.RegisterDevice(smallDisk("B"))

		records := []trace.Record{
			{Time: 0, Op: disk.OpRead, Address: 0, Length: 512},
			{Time: 1, Op: disk.OpWrite, Address: 1 << 30, Length: 512},
			{Time: 2, Op: disk.OpWrite, Address: 512, Length: 512},
		}

		_, err = simulation.Replay("A", records, nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = simulation.Replay("B", records[:1], nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Terminate()).To(Succeed())

		reader, err := datarecording.NewReader(path + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())

		defer reader.Close()

		reader.MapTable(accesstrace.AccessTable, accesstrace.AccessEntry{})
		rows, total, err := reader.Query(context.Background(),
			accesstrace.AccessTable,
			datarecording.QueryParams{Where: "Location = ?", Args: []any{"A"}})

		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(2))
		Expect(rows).To(HaveLen(2))
	})

	It("should reject an output file without recording", func() {
		Expect(func() {
			_, _ = MakeBuilder().WithOutputFileName("x").Build()
		}).To(Panic())
	})
})

var _ = Describe("Simulation with monitoring", func() {
	It("should expose the devices", func() {
		simulation, err := MakeBuilder().WithMonitoring().Build()
		Expect(err).NotTo(HaveOccurred())

		defer func() { Expect(simulation.Terminate()).To(Succeed()) }()

		simulation.RegisterDevice(smallDisk("Disk"))

		Expect(simulation.MonitorURL()).To(HavePrefix("http://localhost:"))
		Expect(simulation.GetMonitor().Lock()).To(BeIdenticalTo(&simulation.lock))
	})
})

var _ = Describe("Result", func() {
	It("should report no latency for failures", func() {
		r := Result{
			Record: trace.Record{Time: 1},
			End:    5,
			Err:    errors.New("failed"),
		}

		Expect(r.Latency()).To(BeZero())
	})
})
