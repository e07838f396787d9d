package state_test

import (
	"fieldflow/domain/state"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateMachine", func() {
	var (
		stateMachine *state.StateMachine
	)

	BeforeEach(func() {
		//         PENDING      DOING           DONE
		// PENDING   -            V (begin)       X
		// DOING     X            -               V (finish)
		// DONE      X            V (reopen)      -
		stateMachine = state.NewStateMachine(
			[]state.State{{Name: "PENDING"}, {Name: "DOING", Category: state.InProcess}, {Name: "DONE", Category: state.Done}},
			[]state.Transition{
				{Name: "begin", From: state.State{Name: "PENDING"}, To: state.State{Name: "DOING", Category: state.InProcess}},
				{Name: "finish", From: state.State{Name: "DOING", Category: state.InProcess}, To: state.State{Name: "DONE", Category: state.Done}, Role: "admin"},
				{Name: "reopen", From: state.State{Name: "DONE", Category: state.Done}, To: state.State{Name: "DOING", Category: state.InProcess}},
			})
	})

	Describe("FindState", func() {
		It("should find state by name", func() {
			s, found := stateMachine.FindState("DOING")
			Expect(found).To(BeTrue())
			Expect(s).To(Equal(state.State{Name: "DOING", Category: state.InProcess}))

			_, found = stateMachine.FindState("UNKNOWN")
			Expect(found).To(BeFalse())
		})
	})

	Describe("AvailableTransitions", func() {
		It("should return transitions matching the from and to states", func() {
			Ω(stateMachine.AvailableTransitions("PENDING", "DOING")).Should(Equal([]state.Transition{
				{Name: "begin", From: state.State{Name: "PENDING"}, To: state.State{Name: "DOING", Category: state.InProcess}},
			}))

			Ω(len(stateMachine.AvailableTransitions("PENDING", "DONE"))).Should(Equal(0))
			Ω(len(stateMachine.AvailableTransitions("DONE", "PENDING"))).Should(Equal(0))
		})

		It("should treat empty from or to as a wildcard", func() {
			Ω(stateMachine.AvailableTransitions("", "DOING")).Should(Equal([]state.Transition{
				{Name: "begin", From: state.State{Name: "PENDING"}, To: state.State{Name: "DOING", Category: state.InProcess}},
				{Name: "reopen", From: state.State{Name: "DONE", Category: state.Done}, To: state.State{Name: "DOING", Category: state.InProcess}},
			}))

			Ω(len(stateMachine.AvailableTransitions("DOING", ""))).Should(Equal(1))
			Ω(len(stateMachine.AvailableTransitions("", ""))).Should(Equal(3))
		})
	})

	Describe("Allowed", func() {
		It("should match transition by name and from state", func() {
			transition, ok := stateMachine.Allowed("begin", "PENDING", "worker")
			Expect(ok).To(BeTrue())
			Expect(transition.To.Name).To(Equal("DOING"))

			_, ok = stateMachine.Allowed("begin", "DOING", "worker")
			Expect(ok).To(BeFalse())

			_, ok = stateMachine.Allowed("unknown", "PENDING", "worker")
			Expect(ok).To(BeFalse())
		})

		It("should honor the transition role when set", func() {
			_, ok := stateMachine.Allowed("finish", "DOING", "admin")
			Expect(ok).To(BeTrue())

			_, ok = stateMachine.Allowed("finish", "DOING", "worker")
			Expect(ok).To(BeFalse())

			// transitions without a role accept any actor
			_, ok = stateMachine.Allowed("reopen", "DONE", "worker")
			Expect(ok).To(BeTrue())
		})
	})
})
