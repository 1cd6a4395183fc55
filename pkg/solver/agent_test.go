package solver

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/mdp-value-iteration/pkg/mdp"
)

var _ = Describe("Agent", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("construction", func() {
		It("should reject a nil model", func() {
			_, err := NewAgent[string, string](ctx, nil, DefaultConfig(SynchronousStrategy))
			Expect(err).To(MatchError(ErrNilModel))
		})

		It("should reject an invalid configuration", func() {
			cfg := DefaultConfig(CyclicStrategy)
			cfg.Discount = 2
			_, err := NewAgent[string, string](ctx, chainModel(), cfg)
			Expect(err).To(MatchError(ErrInvalidDiscount))
		})

		It("should report the run to the recorder", func() {
			rec := &fakeRecorder{}
			agent, err := NewAgent(ctx, chainModel(), DefaultConfig(PrioritizedSweepingStrategy), WithRecorder(rec))
			Expect(err).NotTo(HaveOccurred())

			Expect(rec.strategies).To(Equal([]string{"prioritized"}))
			Expect(rec.stats[0].IterationsUsed).To(Equal(agent.Stats().IterationsUsed))
			Expect(rec.stats[0].QueueDrained).To(BeTrue())
		})

		It("should keep the configuration it ran with", func() {
			cfg := DefaultConfig(CyclicStrategy)
			agent, err := NewAgent(ctx, chainModel(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(agent.Config()).To(Equal(cfg))
		})
	})

	DescribeTable("terminal states",
		func(strategy Strategy, iterations int) {
			cfg := DefaultConfig(strategy)
			cfg.Iterations = iterations
			agent, err := NewAgent(ctx, bridgeModel(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(agent.Value("exit")).To(Equal(0.0))
			action, ok := agent.Policy("exit")
			Expect(ok).To(BeFalse())
			Expect(action).To(BeEmpty())
			_, ok = agent.Action("exit")
			Expect(ok).To(BeFalse())
		},
		Entry("synchronous, one sweep", SynchronousStrategy, 1),
		Entry("synchronous, many sweeps", SynchronousStrategy, 200),
		Entry("cyclic, one update", CyclicStrategy, 1),
		Entry("cyclic, many passes", CyclicStrategy, 2000),
		Entry("prioritized, one update", PrioritizedSweepingStrategy, 1),
		Entry("prioritized, until drained", PrioritizedSweepingStrategy, 10000),
	)

	DescribeTable("states that were never updated",
		func(strategy Strategy) {
			cfg := DefaultConfig(strategy)
			cfg.Iterations = 1
			agent, err := NewAgent(ctx, chainModel(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(agent.Value("not-a-state")).To(Equal(0.0))
			Expect(agent.Values()).NotTo(HaveKey("not-a-state"))
		},
		Entry("synchronous", SynchronousStrategy),
		Entry("cyclic", CyclicStrategy),
		Entry("prioritized", PrioritizedSweepingStrategy),
	)

	Context("queries after a run", func() {
		var agent *Agent[string, string]

		BeforeEach(func() {
			var err error
			agent, err = NewAgent(ctx, bridgeModel(), DefaultConfig(SynchronousStrategy))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should be idempotent", func() {
			q := agent.QValue("start", "cross")
			policy, ok := agent.Policy("start")
			Expect(ok).To(BeTrue())
			values := agent.Values()

			for i := 0; i < 5; i++ {
				Expect(agent.QValue("start", "cross")).To(Equal(q))
				again, _ := agent.Policy("start")
				Expect(again).To(Equal(policy))
				Expect(agent.Values()).To(Equal(values))
			}
		})

		It("should act according to the policy", func() {
			for _, s := range bridgeModel().States() {
				p, pok := agent.Policy(s)
				a, aok := agent.Action(s)
				Expect(a).To(Equal(p))
				Expect(aok).To(Equal(pok))
			}
		})

		It("should prefer the safe exit over the risky crossing", func() {
			action, ok := agent.Policy("start")
			Expect(ok).To(BeTrue())
			Expect(action).To(Equal("quit"))
			Expect(agent.Value("start")).To(Equal(agent.QValue("start", "quit")))
			Expect(agent.QValue("start", "cross")).To(BeNumerically("<", agent.QValue("start", "quit")))
		})

		It("should value a state as its best Q-value", func() {
			for _, s := range []string{"bridge", "river", "goal"} {
				action, ok := agent.Policy(s)
				Expect(ok).To(BeTrue())
				Expect(agent.Value(s)).To(BeNumerically("~", agent.QValue(s, action), 1e-9))
			}
		})
	})

	It("should work with non-string state and action types", func() {
		agent, err := NewAgent[int, rune](ctx, counterModel{}, Config{Strategy: CyclicStrategy, Discount: 0.5, Iterations: 6})
		Expect(err).NotTo(HaveOccurred())

		// states [2, 1, 0]: 2 -> 1 -> 0 terminal, reward 1 each
		Expect(agent.Value(1)).To(Equal(1.0))
		Expect(agent.Value(2)).To(Equal(1.5))
		action, ok := agent.Policy(2)
		Expect(ok).To(BeTrue())
		Expect(action).To(Equal('-'))
	})
})

// counterModel counts down from 2 to the terminal state 0.
type counterModel struct{}

func (counterModel) States() []int { return []int{2, 1, 0} }

func (counterModel) PossibleActions(s int) []rune {
	if s == 0 {
		return nil
	}
	return []rune{'-'}
}

func (counterModel) TransitionStatesAndProbs(s int, _ rune) []mdp.Transition[int] {
	return []mdp.Transition[int]{{State: s - 1, Prob: 1}}
}

func (counterModel) Reward(int, rune, int) float64 { return 1 }

func (counterModel) IsTerminal(s int) bool { return s == 0 }
