package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StepCountTracer", func() {
	var t *StepCountTracer

	BeforeEach(func() {
		t = NewStepCountTracer(AllTasks)
	})

	step := func(id, what string) Task {
		return Task{ID: id, Steps: []TaskStep{{What: what}}}
	}

	It("should count steps and tasks", func() {
		t.StartTask(Task{ID: "1"})
		t.StartTask(Task{ID: "2"})

		t.StepTask(step("1", "seek"))
		t.StepTask(step("1", "track_switch"))
		t.StepTask(step("1", "track_switch"))
		t.StepTask(step("2", "track_switch"))

		t.EndTask(Task{ID: "1"})
		t.EndTask(Task{ID: "2"})

		Expect(t.StepNames()).To(Equal([]string{"seek", "track_switch"}))
		Expect(t.StepCount("track_switch")).To(Equal(uint64(3)))
		Expect(t.TaskCount("track_switch")).To(Equal(uint64(2)))
		Expect(t.TaskCount("seek")).To(Equal(uint64(1)))
	})

	It("should ignore steps of unknown tasks", func() {
		t.StepTask(step("9", "seek"))

		Expect(t.StepNames()).To(BeEmpty())
	})
})
