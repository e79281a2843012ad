package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RPM", func() {
	It("should get the period", func() {
		Expect(RPM7200.Period()).To(BeNumerically("~", 1.0/120, 1e-12))
		Expect(RPM(60).Period()).To(BeNumerically("==", 1))
	})

	It("should get half a period", func() {
		Expect(RPM15000.HalfPeriod()).To(BeNumerically("~", 0.002, 1e-12))
	})

	It("should count revolutions", func() {
		Expect(RPM(600).Revolutions(1)).To(BeNumerically("~", 10, 1e-9))
	})

	It("should sweep a number of slots", func() {
		r := RPM(60)
		Expect(r.Sweep(3, 8)).To(BeNumerically("~", 0.375, 1e-12))
		Expect(r.Sweep(8, 8)).To(BeNumerically("~", 1, 1e-12))
		Expect(r.Sweep(0, 8)).To(BeNumerically("==", 0))
	})

	It("should panic if the speed is not positive", func() {
		Expect(func() { RPM(0).Period() }).To(Panic())
		Expect(func() { RPM(-1).Period() }).To(Panic())
	})

	It("should panic if a revolution has no slot", func() {
		Expect(func() { RPM7200.Sweep(1, 0) }).To(Panic())
	})
})
