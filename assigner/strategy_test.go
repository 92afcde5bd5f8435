package assigner_test

import (
	. "github.com/dcos/portassign/assigner"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcos/portassign/assigner/errors"
	"github.com/dcos/portassign/params"
)

var _ = Describe("InputAssigner", func() {
	var (
		a   *InputAssigner
		err error
	)

	Describe("in range mode over 5000-5002", func() {
		BeforeEach(func() {
			a, err = New(params.New(map[string]string{
				params.ListenPortMode:       "range",
				params.ListenPortRangeStart: "5000",
				params.ListenPortRangeEnd:   "5002",
			}))
			Expect(err).ToNot(HaveOccurred())
		})

		Context("with three tasks assigned", func() {
			var ports []uint16
			BeforeEach(func() {
				ports = nil
				for _, id := range []string{"task1", "task2", "task3"} {
					pa, err := a.AssignPort(id)
					Expect(err).ToNot(HaveOccurred())
					ports = append(ports, pa.Port())
				}
			})

			It("should hand out the range in order", func() {
				Expect(ports).To(Equal([]uint16{5000, 5001, 5002}))
			})
			It("should fail a fourth task with ErrAllocationExhausted", func() {
				pa, err := a.AssignPort("task4")
				Expect(err).To(HaveOccurred())
				Expect(errors.IsErrAllocationExhausted(err)).To(BeTrue())
				Expect(pa).To(BeNil())
			})
			It("should report each task's assignment", func() {
				pa, ok := a.CurrentAssignment("task3")
				Expect(ok).To(BeTrue())
				Expect(pa.Ports).To(ConsistOf(uint16(5002)))
				Expect(pa.Mode).To(Equal(params.PortModeRange))
			})

			Context("after releasing the middle task", func() {
				BeforeEach(func() {
					Expect(a.Release("task2")).To(Succeed())
				})

				It("should reuse exactly the released port", func() {
					pa, err := a.AssignPort("task4")
					Expect(err).ToNot(HaveOccurred())
					Expect(pa.Port()).To(Equal(uint16(5001)))
				})
				It("should leave the other tasks alone", func() {
					Expect(a.Assignments()).To(HaveLen(2))
					pa, ok := a.CurrentAssignment("task1")
					Expect(ok).To(BeTrue())
					Expect(pa.Port()).To(Equal(uint16(5000)))
				})
			})
		})

		It("should report NotFound for a task never assigned", func() {
			_, err := a.AssignPort("task1")
			Expect(err).ToNot(HaveOccurred())

			err = a.Release("ghost")
			Expect(errors.IsErrNotFound(err)).To(BeTrue())

			pa, ok := a.CurrentAssignment("task1")
			Expect(ok).To(BeTrue())
			Expect(pa.Port()).To(Equal(uint16(5000)))
		})
	})

	Describe("in single mode on port 9090", func() {
		BeforeEach(func() {
			a, err = New(params.New(map[string]string{
				params.ListenPortMode: "single",
				params.ListenPort:     "9090",
			}))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should let only one task hold the port", func() {
			pa, err := a.AssignPort("A")
			Expect(err).ToNot(HaveOccurred())
			Expect(pa.Port()).To(Equal(uint16(9090)))

			_, err = a.AssignPort("B")
			Expect(errors.IsErrAllocationExhausted(err)).To(BeTrue())

			Expect(a.Release("A")).To(Succeed())
			pa, err = a.AssignPort("B")
			Expect(err).ToNot(HaveOccurred())
			Expect(pa.Port()).To(Equal(uint16(9090)))
		})

		It("should reject empty task ids", func() {
			_, err := a.AssignPort("")
			Expect(errors.IsErrInvalidTask(err)).To(BeTrue())
		})
	})

	Describe("in single mode with a shared port", func() {
		BeforeEach(func() {
			a, err = New(params.New(map[string]string{
				params.ListenPortMode:   "single",
				params.ListenPort:       "9090",
				params.ListenPortShared: "true",
			}))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should give every task the same port", func() {
			for _, id := range []string{"A", "B", "C"} {
				pa, err := a.AssignPort(id)
				Expect(err).ToNot(HaveOccurred())
				Expect(pa.Port()).To(Equal(uint16(9090)))
			}
			Expect(a.Assignments()).To(HaveLen(3))
		})
	})

	Describe("in ephemeral mode", func() {
		BeforeEach(func() {
			a, err = New(params.New(map[string]string{params.ListenPortMode: "ephemeral"}))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should never give two tasks the same port", func() {
			one, err := a.AssignPort("task1")
			Expect(err).ToNot(HaveOccurred())
			two, err := a.AssignPort("task2")
			Expect(err).ToNot(HaveOccurred())
			Expect(one.Port()).ToNot(Equal(two.Port()))
			Expect(one.Port()).ToNot(BeZero())
		})
	})

	Describe("with an unknown mode", func() {
		It("should not produce an assigner", func() {
			a, err := New(params.New(map[string]string{params.ListenPortMode: "bogus"}))
			Expect(err).To(HaveOccurred())
			Expect(errors.IsErrConfiguration(err)).To(BeTrue())
			Expect(a).To(BeNil())
		})
	})
})
