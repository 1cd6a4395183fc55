package solver

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/mdp-value-iteration/pkg/core"
)

var _ = Describe("Synchronous value iteration", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with a single self-looping state", func() {
		It("should accumulate the geometric sum of rewards", func() {
			cfg := Config{Strategy: SynchronousStrategy, Discount: 0.5, Iterations: 5}
			agent, err := NewAgent(ctx, loopModel(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(agent.Value("A")).To(Equal(1 + 0.5 + 0.25 + 0.125 + 0.0625))
			Expect(agent.Value("T")).To(Equal(0.0))
			Expect(agent.Stats().IterationsUsed).To(Equal(5))
			Expect(agent.Stats().Updates).To(Equal(10))
		})
	})

	Context("with lock-step semantics", func() {
		It("should not let a sweep see its own updates", func() {
			cfg := Config{Strategy: SynchronousStrategy, Discount: 0.5, Iterations: 1}
			agent, err := NewAgent(ctx, chainModel("B", "A", "T"), cfg)
			Expect(err).NotTo(HaveOccurred())

			// B is updated before A but A still reads B's pre-sweep value
			Expect(agent.Value("B")).To(Equal(1.0))
			Expect(agent.Value("A")).To(Equal(1.0))
		})

		DescribeTable("should equal k backups applied from an all-zero table",
			func(k int, discount float64) {
				model := bridgeModel()
				cfg := Config{Strategy: SynchronousStrategy, Discount: discount, Iterations: k}
				agent, err := NewAgent(ctx, model, cfg)
				Expect(err).NotTo(HaveOccurred())

				Expect(agent.Values()).To(Equal(lockStep(model, discount, k)))
			},
			Entry("one sweep", 1, 0.9),
			Entry("three sweeps", 3, 0.9),
			Entry("ten sweeps, undiscounted", 10, 1.0),
			Entry("many sweeps on a cyclic model", 50, 0.5),
		)

		It("should match lock-step backups on a model with cycles", func() {
			model := cycleModel()
			agent, err := NewAgent(ctx, model, Config{Strategy: SynchronousStrategy, Discount: 0.9, Iterations: 7})
			Expect(err).NotTo(HaveOccurred())
			Expect(agent.Values()).To(Equal(lockStep(model, 0.9, 7)))
		})
	})

	Context("when solving into a caller-supplied table", func() {
		It("should replace entries for states the model does not enumerate", func() {
			s, err := NewSolver[string, string](Config{Strategy: SynchronousStrategy, Discount: 0.9, Iterations: 1})
			Expect(err).NotTo(HaveOccurred())

			values := core.NewValueTable[string]()
			values.Set("ghost", 5)
			stats := s.Solve(ctx, chainModel(), values)

			Expect(values.Get("ghost")).To(Equal(0.0))
			Expect(values.Len()).To(Equal(3))
			Expect(stats.Strategy).To(Equal(SynchronousStrategy))
		})

		It("should report the largest change of the last sweep", func() {
			s, err := NewSolver[string, string](Config{Strategy: SynchronousStrategy, Discount: 0.5, Iterations: 2})
			Expect(err).NotTo(HaveOccurred())

			values := core.NewValueTable[string]()
			stats := s.Solve(ctx, loopModel(), values)

			// 0 -> 1 -> 1.5
			Expect(stats.MaxResidual).To(Equal(0.5))
		})
	})
})
