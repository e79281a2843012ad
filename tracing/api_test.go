package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/hddsim/sim"
)

var _ = Describe("Api", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *MockNamedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("when the domain has hooks", func() {
		BeforeEach(func() {
			domain.EXPECT().NumHooks().Return(1).AnyTimes()
		})

		It("should panic if ID is not given", func() {
			domain.EXPECT().Name().Return("domain").AnyTimes()
			Expect(func() {
				StartTask("", 0, domain, "kind", "what", nil)
			}).Should(Panic())
		})

		It("should panic if the domain's name is empty", func() {
			domain.EXPECT().Name().Return("").AnyTimes()
			Expect(func() {
				StartTask("id", 0, domain, "kind", "what", nil)
			}).Should(Panic())
		})

		It("should panic if kind is empty", func() {
			domain.EXPECT().Name().Return("domain").AnyTimes()
			Expect(func() {
				StartTask("id", 0, domain, "", "what", nil)
			}).Should(Panic())
		})

		It("should panic if what is empty", func() {
			domain.EXPECT().Name().Return("domain").AnyTimes()
			Expect(func() {
				StartTask("id", 0, domain, "kind", "", nil)
			}).Should(Panic())
		})

		It("should start a task", func() {
			domain.EXPECT().Name().Return("domain").AnyTimes()
			domain.EXPECT().InvokeHook(gomock.Any()).Do(func(ctx sim.HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStart))

				task := ctx.Item.(Task)
				Expect(task.ID).To(Equal("id"))
				Expect(task.Where).To(Equal("domain"))
				Expect(task.StartTime).To(Equal(sim.VTimeInSec(1.5)))
				Expect(task.Detail).To(Equal(7))
			})

			StartTask("id", 1.5, domain, "kind", "what", 7)
		})

		It("should add a step", func() {
			domain.EXPECT().InvokeHook(gomock.Any()).Do(func(ctx sim.HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStep))

				task := ctx.Item.(Task)
				Expect(task.Steps).To(Equal([]TaskStep{{Time: 2, What: "seek"}}))
			})

			AddTaskStep("id", 2, domain, "seek")
		})

		It("should end a task", func() {
			domain.EXPECT().InvokeHook(gomock.Any()).Do(func(ctx sim.HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskEnd))
				Expect(ctx.Item.(Task).EndTime).To(Equal(sim.VTimeInSec(3)))
			})

			EndTask("id", 3, domain)
		})
	})

	It("should panic if the domain is nil", func() {
		Expect(func() {
			StartTask("id", 0, nil, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should not invoke hooks if there are none", func() {
		domain.EXPECT().NumHooks().Return(0).AnyTimes()

		StartTask("id", 0, domain, "kind", "what", nil)
		AddTaskStep("id", 0, domain, "step")
		EndTask("id", 0, domain)
	})
})
