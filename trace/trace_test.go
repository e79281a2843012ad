package trace_test

import (
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/sim"
	"github.com/sarchlab/hddsim/trace"
)

const sampleTrace = `# sequential reads
0.0 r 0 4096

0.5 w 0x1000 512 overwrite the header
  1.25 R 1048576 1   
`

var _ = Describe("Reader", func() {
	It("should read records and skip comments", func() {
		records, err := trace.ReadAll(strings.NewReader(sampleTrace))

		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(Equal([]trace.Record{
			{Line: 2, Time: 0, Op: disk.OpRead, Address: 0, Length: 4096},
			{
				Line: 4, Time: 0.5, Op: disk.OpWrite, Address: 4096,
				Length: 512, Comment: "overwrite the header",
			},
			{Line: 5, Time: 1.25, Op: disk.OpRead, Address: 1 << 20, Length: 1},
		}))
	})

	It("should return EOF at the end", func() {
		r := trace.NewReader(strings.NewReader("# nothing\n\n"))

		_, err := r.Read()

		Expect(err).To(Equal(io.EOF))
	})

	It("should return an empty slice for an empty trace", func() {
		records, err := trace.ReadAll(strings.NewReader(""))

		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())
	})

	It("should report the line of a bad record", func() {
		_, err := trace.ReadAll(strings.NewReader("0 r 0 512\n\n0 x 0 512\n"))

		Expect(err).To(MatchError(trace.ErrSyntax))
		Expect(err.Error()).To(ContainSubstring("line 3"))
	})

	DescribeTable("malformed lines",
		func(text string) {
			_, err := trace.ParseLine(1, text)
			Expect(err).To(MatchError(trace.ErrSyntax))
		},
		Entry("too few fields", "0 r 0"),
		Entry("bad timestamp", "soon r 0 512"),
		Entry("negative timestamp", "-1 r 0 512"),
		Entry("bad operation", "0 erase 0 512"),
		Entry("bad address", "0 r -4 512"),
		Entry("bad length", "0 r 0 lots"),
	)
})

var _ = Describe("Record", func() {
	DescribeTable("converting bytes to blocks",
		func(address, length uint64, block, nblocks uint64) {
			r := trace.Record{Time: sim.VTimeInSec(0), Address: address, Length: length}

			b, n := r.Blocks(512)

			Expect(b).To(Equal(block))
			Expect(n).To(Equal(nblocks))
		},
		Entry("aligned", uint64(1024), uint64(1024), uint64(2), uint64(2)),
		Entry("partial block", uint64(1000), uint64(1), uint64(1), uint64(1)),
		Entry("round up", uint64(0), uint64(513), uint64(0), uint64(2)),
		Entry("empty", uint64(512), uint64(0), uint64(1), uint64(0)),
	)

	It("should panic on zero block size", func() {
		Expect(func() { trace.Record{}.Blocks(0) }).To(Panic())
	})
})
