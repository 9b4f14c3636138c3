package game_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/thermoscan/internal/game"
)

func islands(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

var _ = Describe("Session", func() {
	Describe("construction", func() {
		DescribeTable("rejects sizes outside [3,10]",
			func(size int) {
				_, err := game.New(size)
				Expect(err).To(MatchError(game.ErrInvalidSize))
			},
			Entry("zero", 0),
			Entry("two", 2),
			Entry("eleven", 11),
			Entry("negative", -3),
		)

		DescribeTable("starts with every island unscanned",
			func(size int) {
				s, err := game.New(size)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.UnscannedIslands()).To(Equal(islands(size * size)))
				Expect(s.IsComplete()).To(BeFalse())

				acc, err := s.FinalAccuracy()
				Expect(err).NotTo(HaveOccurred())
				Expect(acc).To(BeZero())
			},
			Entry("3", 3),
			Entry("4", 4),
			Entry("5", 5),
		)
	})

	Context("with gameSize 3", func() {
		var s *game.Session

		BeforeEach(func() {
			var err error
			s, err = game.New(3)
			Expect(err).NotTo(HaveOccurred())
		})

		It("accepts a first move and rejects a repeat", func() {
			res, err := s.MakeMove(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Success).To(BeTrue())
			Expect(res.Scored).To(BeTrue())
			Expect(res.PlayerIsland).To(Equal(1))

			st := s.GameState()
			Expect(st.Remaining).To(HaveLen(8))
			Expect(st.Remaining).NotTo(ContainElement(1))
			Expect(st.RExpert).To(HaveLen(1))
			Expect(st.RPlayer).To(HaveLen(1))
			Expect(st.Step).To(Equal(1))

			before := s.GameState()
			res, err = s.MakeMove(1)
			Expect(err).To(MatchError(game.ErrInvalidSelection))
			Expect(res.Success).To(BeFalse())
			Expect(res.Message).To(ContainSubstring("invalid selection"))
			Expect(s.GameState()).To(Equal(before))
		})

		It("rejects out-of-range islands without changing state", func() {
			before := s.GameState()
			for _, idx := range []int{0, -1, 10, 100} {
				res, err := s.MakeMove(idx)
				Expect(err).To(MatchError(game.ErrInvalidSelection))
				Expect(res.Success).To(BeFalse())
			}
			Expect(s.GameState()).To(Equal(before))
		})

		It("shrinks the remaining set by exactly the chosen island", func() {
			for _, idx := range []int{5, 2, 9} {
				before := s.UnscannedIslands()
				step := s.GameState().Step

				_, err := s.MakeMove(idx)
				Expect(err).NotTo(HaveOccurred())

				after := s.UnscannedIslands()
				Expect(after).To(HaveLen(len(before) - 1))
				Expect(after).NotTo(ContainElement(idx))
				Expect(before).To(ContainElement(idx))
				Expect(s.GameState().Step).To(Equal(step + 1))
			}
		})

		It("completes after exactly nine moves with a finite accuracy", func() {
			for i := 1; i <= 9; i++ {
				Expect(s.IsComplete()).To(BeFalse())
				_, err := s.MakeMove(i)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(s.IsComplete()).To(BeTrue())

			acc, err := s.FinalAccuracy()
			Expect(err).NotTo(HaveOccurred())
			Expect(math.IsNaN(acc) || math.IsInf(acc, 0)).To(BeFalse())
			Expect(acc).To(BeNumerically(">", 0))

			_, err = s.MakeMove(1)
			Expect(err).To(MatchError(game.ErrGameComplete))
		})

		It("has the expert scan every island exactly once", func() {
			for i := 9; i >= 1; i-- {
				_, err := s.MakeMove(i)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(s.GameState().ExpertMoves).To(ConsistOf(islands(9)))
		})

		It("scores 100 when the player copies the expert", func() {
			for !s.IsComplete() {
				// Copying the expert keeps both trajectories identical, so the
				// suggestion from the player's state is the expert's next island.
				next, err := s.Suggest()
				Expect(err).NotTo(HaveOccurred())

				res, err := s.MakeMove(next)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.ExpertIsland).To(Equal(next))
			}
			acc, err := s.FinalAccuracy()
			Expect(err).NotTo(HaveOccurred())
			Expect(acc).To(BeNumerically("~", 100, 1e-9))
		})

		It("leaves state untouched on repeated queries", func() {
			_, err := s.MakeMove(4)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.GameState()).To(Equal(s.GameState()))
			Expect(s.UnscannedIslands()).To(Equal(s.UnscannedIslands()))
			Expect(s.TemperatureMap()).To(Equal(s.TemperatureMap()))

			m := s.TemperatureMap()
			m[0][0] = -1
			Expect(s.TemperatureMap()[0][0]).NotTo(Equal(-1.0))

			left := s.UnscannedIslands()
			left[0] = 99
			Expect(s.UnscannedIslands()[0]).NotTo(Equal(99))
		})
	})
})
