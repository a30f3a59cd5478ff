package state_test

import (
	"construxflow/bizerror"
	"construxflow/domain/state"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateMachine", func() {
	var (
		stateMachine *state.StateMachine
	)

	BeforeEach(func() {
		//         PENDING      DOING         DONE
		// PENDING   -            V (begin)   V (close)
		// DOING     V (cancel)   -           V (finish)
		// DONE      X            X           -
		stateMachine = state.NewStateMachine(
			[]state.State{{Name: "PENDING"}, {Name: "DOING"}, {Name: "DONE", Terminal: true}},
			[]state.Transition{
				{Name: "begin", From: state.State{Name: "PENDING"}, To: state.State{Name: "DOING"}},
				{Name: "close", From: state.State{Name: "PENDING"}, To: state.State{Name: "DONE", Terminal: true}},
				{Name: "cancel", From: state.State{Name: "DOING"}, To: state.State{Name: "PENDING"}},
				{Name: "finish", From: state.State{Name: "DOING"}, To: state.State{Name: "DONE", Terminal: true}},
			})
	})

	Describe("AvailableTransitions", func() {
		It("should filter transitions by from and to state", func() {
			Ω(stateMachine.AvailableTransitions("PENDING", "")).Should(Equal([]state.Transition{
				{Name: "begin", From: state.State{Name: "PENDING"}, To: state.State{Name: "DOING"}},
				{Name: "close", From: state.State{Name: "PENDING"}, To: state.State{Name: "DONE", Terminal: true}},
			}))
			Ω(stateMachine.AvailableTransitions("", "DONE")).Should(Equal([]state.Transition{
				{Name: "close", From: state.State{Name: "PENDING"}, To: state.State{Name: "DONE", Terminal: true}},
				{Name: "finish", From: state.State{Name: "DOING"}, To: state.State{Name: "DONE", Terminal: true}},
			}))
			Ω(stateMachine.AvailableTransitions("DOING", "PENDING")).Should(Equal([]state.Transition{
				{Name: "cancel", From: state.State{Name: "DOING"}, To: state.State{Name: "PENDING"}},
			}))
			Ω(len(stateMachine.AvailableTransitions("DONE", ""))).Should(Equal(0))
			Ω(len(stateMachine.AvailableTransitions("UNKNOWN", ""))).Should(Equal(0))
		})
	})

	Describe("Fire", func() {
		It("should return the matched transition", func() {
			t, err := stateMachine.Fire("DOING", "finish")
			Expect(err).To(BeNil())
			Expect(t.To.Name).To(Equal("DONE"))
			Expect(t.To.Terminal).To(BeTrue())
		})

		It("should reject unknown action as bad param", func() {
			t, err := stateMachine.Fire("DOING", "explode")
			Expect(t).To(BeNil())
			Expect(err).To(Equal(bizerror.BadParam("invalid action 'explode'")))
		})

		It("should report conflict when action is not allowed from current state", func() {
			t, err := stateMachine.Fire("DONE", "finish")
			Expect(t).To(BeNil())
			Expect(err).To(Equal(bizerror.ErrStateConflict))
		})

		It("should report unknown state", func() {
			_, err := stateMachine.Fire("LOST", "finish")
			Expect(err).To(Equal(bizerror.ErrUnknownState))
		})
	})

	Describe("DecisionMachine", func() {
		It("should allow approve and reject only from pending", func() {
			t, err := state.DecisionMachine.Fire("pending", "approve")
			Expect(err).To(BeNil())
			Expect(t.To).To(Equal(state.Approved))

			t, err = state.DecisionMachine.Fire("pending", "reject")
			Expect(err).To(BeNil())
			Expect(t.To).To(Equal(state.Rejected))

			for _, from := range []string{"approved", "rejected"} {
				for _, action := range []string{"approve", "reject"} {
					_, err := state.DecisionMachine.Fire(from, action)
					Expect(err).To(Equal(bizerror.ErrStateConflict))
				}
			}
		})
	})
})
