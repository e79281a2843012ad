package disk_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/sim"
)

var _ = Describe("Op", func() {
	It("should parse trace ops", func() {
		op, err := disk.ParseOp("r")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(disk.OpRead))

		op, err = disk.ParseOp("W")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(disk.OpWrite))
	})

	It("should reject unknown ops", func() {
		_, err := disk.ParseOp("x")
		Expect(err).To(MatchError(disk.ErrInvalidArgument))
	})

	It("should print ops", func() {
		Expect(disk.OpRead.String()).To(Equal("read"))
		Expect(disk.OpWrite.String()).To(Equal("write"))
	})
})

var _ = Describe("Do", func() {
	var (
		mockCtrl *gomock.Controller
		device   *MockDevice
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		device = NewMockDevice(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should dispatch reads", func() {
		device.EXPECT().
			Read(sim.VTimeInSec(1), uint64(10), uint64(2)).
			Return(sim.VTimeInSec(1.5), nil)

		end, err := disk.Do(device, disk.OpRead, 1, 10, 2)

		Expect(err).NotTo(HaveOccurred())
		Expect(end).To(Equal(sim.VTimeInSec(1.5)))
	})

	It("should dispatch writes", func() {
		device.EXPECT().
			Write(sim.VTimeInSec(2), uint64(3), uint64(1)).
			Return(sim.VTimeInSec(2.25), nil)

		end, err := disk.Do(device, disk.OpWrite, 2, 3, 1)

		Expect(err).NotTo(HaveOccurred())
		Expect(end).To(Equal(sim.VTimeInSec(2.25)))
	})

	It("should reject unknown ops", func() {
		_, err := disk.Do(device, disk.Op('x'), 0, 0, 1)

		Expect(err).To(MatchError(disk.ErrInvalidArgument))
	})
})
