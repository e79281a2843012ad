package cache_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/disk/cache"
)

func mustNew(capacity int) *cache.Cache {
	c, err := cache.New(capacity)
	Expect(err).NotTo(HaveOccurred())

	return c
}

func accessAll(c *cache.Cache, blocks ...uint64) {
	for _, b := range blocks {
		c.Access(b)
	}
}

// The access pattern of the disk lab cache driver: block 0, stride-1 over
// 0-9 twice, stride-4 over 0-16, then block 0 six times.
func driverPattern() []uint64 {
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

var _ = Describe("Cache", func() {
	It("should reject capacities smaller than 2", func() {
		for _, capacity := range []int{-1, 0, 1} {
			c, err := cache.New(capacity)

			Expect(c).To(BeNil())
			Expect(err).To(MatchError(disk.ErrInvalidArgument))
		}
	})

	It("should report a zero miss rate before any access", func() {
		c := mustNew(4)

		Expect(c.MissRate()).To(Equal(0.0))
		Expect(c.Stats()).To(Equal(cache.Stats{}))
	})

	It("should evict the least recently used block", func() {
		c := mustNew(2)

		accessAll(c, 0, 1, 2)

		Expect(c.Misses()).To(Equal(uint64(3)))
		Expect(c.Hits()).To(Equal(uint64(0)))
		Expect(c.Contains(0)).To(BeFalse())
		Expect(c.Contains(1)).To(BeTrue())
		Expect(c.Contains(2)).To(BeTrue())
	})

	It("should count hits", func() {
		c := mustNew(2)

		accessAll(c, 0, 1, 0, 1)

		Expect(c.Misses()).To(Equal(uint64(2)))
		Expect(c.Hits()).To(Equal(uint64(2)))
		Expect(c.MissRate()).To(Equal(0.5))
	})

	It("should promote a block on hit", func() {
		c := mustNew(2)

		accessAll(c, 0, 1, 0, 2)

		Expect(c.Contains(0)).To(BeTrue())
		Expect(c.Contains(1)).To(BeFalse())
		Expect(c.Contains(2)).To(BeTrue())
	})

	It("should not change anything on Contains", func() {
		c := mustNew(2)
		accessAll(c, 0, 1)

		Expect(c.Contains(0)).To(BeTrue())
		c.Access(2)

		Expect(c.Contains(0)).To(BeFalse())
		Expect(c.Hits()).To(Equal(uint64(0)))
		Expect(c.Misses()).To(Equal(uint64(3)))
	})

	It("should bring blocks in with Put without counting", func() {
		c := mustNew(2)

		c.Put(7)
		c.Put(8)
		c.Put(7)
		c.Put(9)

		Expect(c.Stats().Accesses()).To(Equal(uint64(0)))
		Expect(c.Contains(7)).To(BeTrue())
		Expect(c.Contains(8)).To(BeFalse())
		Expect(c.Access(9)).To(BeTrue())
	})

	It("should never hold more blocks than its capacity", func() {
		c := mustNew(3)

		for i := uint64(0); i < 100; i++ {
			c.Access(i % 7)
			Expect(c.Len()).To(BeNumerically("<=", c.Size()))
		}

		Expect(c.Len()).To(Equal(3))
	})

	DescribeTable("the disk lab driver pattern",
		func(capacity int, hits, misses uint64) {
			c := mustNew(capacity)

			accessAll(c, driverPattern()...)

			Expect(c.Hits()).To(Equal(hits))
			Expect(c.Misses()).To(Equal(misses))
		},
		Entry("2 blocks", 2, uint64(6), uint64(26)),
		Entry("7 blocks", 7, uint64(9), uint64(23)),
		Entry("16 blocks", 16, uint64(20), uint64(12)),
	)

	It("should take snapshots in recency order", func() {
		c := mustNew(3)

		accessAll(c, 1, 2, 3, 1)

		s := c.Snapshot()
		Expect(s.Capacity).To(Equal(3))
		Expect(s.Entries).To(Equal([]cache.Entry{
			{Block: 1, LastUsed: 4},
			{Block: 3, LastUsed: 3},
			{Block: 2, LastUsed: 2},
		}))
		Expect(s.Stats.Hits).To(Equal(uint64(1)))
		Expect(s.Stats.Misses).To(Equal(uint64(3)))
	})

	It("should dump", func() {
		c := mustNew(2)
		accessAll(c, 5, 6, 5)

		buf := new(bytes.Buffer)
		Expect(c.Dump(buf)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("cache (2 blocks, 2 used)"))
		Expect(buf.String()).To(ContainSubstring("hit/miss:   1 / 2"))
		Expect(buf.String()).To(ContainSubstring("miss rate:  66.667%"))
		Expect(buf.String()).To(ContainSubstring("contents (MRU -> LRU): 5@3 6@2"))
	})
})
