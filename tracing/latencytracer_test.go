package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hddsim/sim"
)

var _ = Describe("LatencyTracer", func() {
	var t *LatencyTracer

	BeforeEach(func() {
		t = NewLatencyTracer(func(task Task) bool {
			return task.What == "read"
		})
	})

	It("should report zero average without tasks", func() {
		Expect(t.Stats().Count).To(BeZero())
		Expect(t.Stats().Average()).To(BeZero())
	})

	It("should measure the tasks accepted by the filter", func() {
		t.StartTask(Task{ID: "1", What: "read", StartTime: 1})
		t.StartTask(Task{ID: "2", What: "read", StartTime: 2})
		t.StartTask(Task{ID: "3", What: "write", StartTime: 2})
		t.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "seek"}}})
		t.EndTask(Task{ID: "1", EndTime: 1.5})
		t.EndTask(Task{ID: "2", EndTime: 3})
		t.EndTask(Task{ID: "3", EndTime: 10})

		stats := t.Stats()
		Expect(stats.Count).To(Equal(uint64(2)))
		Expect(float64(stats.Total)).To(BeNumerically("~", 1.5, 1e-12))
		Expect(stats.Min).To(Equal(sim.VTimeInSec(0.5)))
		Expect(stats.Max).To(Equal(sim.VTimeInSec(1)))
		Expect(float64(stats.Average())).To(BeNumerically("~", 0.75, 1e-12))
	})

	It("should count a task once", func() {
		t.StartTask(Task{ID: "1", What: "read", StartTime: 1})
		t.EndTask(Task{ID: "1", EndTime: 2})
		t.EndTask(Task{ID: "1", EndTime: 5})

		Expect(t.Stats().Count).To(Equal(uint64(1)))
	})
})
