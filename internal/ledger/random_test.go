package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickWinnerEmptySet(t *testing.T) {
	_, err := pickWinner(nil)
	assert.ErrorIs(t, err, ErrNoParticipants)
}

func TestPickWinnerSingleTicket(t *testing.T) {
	n, err := pickWinner([]uint32{7})
	require.NoError(t, err)
	assert.Equal(t, uint32(7), n)
}

func TestPickWinnerAlwaysFromSoldSet(t *testing.T) {
	sold := []uint32{3, 14, 15, 92, 65}
	members := map[uint32]bool{}
	for _, n := range sold {
		members[n] = true
	}
	for i := 0; i < 500; i++ {
		n, err := pickWinner(sold)
		require.NoError(t, err)
		assert.True(t, members[n], "picked %d which was never sold", n)
	}
}

// Every sold ticket must win with probability 1/len(sold).  With 10000
// draws over 100 tickets the expected hit count is 100 per ticket; the
// bounds below are ~6 standard deviations wide, so a correct uniform
// picker fails this test with negligible probability while an
// off-by-one or modulo-biased picker fails it reliably.
func TestPickWinnerUniformity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical test in short mode")
	}
	sold := make([]uint32, 100)
	for i := range sold {
		sold[i] = uint32(i + 1)
	}
	const draws = 10000
	hits := make(map[uint32]int, len(sold))
	for i := 0; i < draws; i++ {
		n, err := pickWinner(sold)
		require.NoError(t, err)
		hits[n]++
	}
	assert.Len(t, hits, len(sold), "some tickets never won across %d draws", draws)
	for n, c := range hits {
		assert.Greaterf(t, c, 40, "ticket %d underrepresented: %d hits", n, c)
		assert.Lessf(t, c, 170, "ticket %d overrepresented: %d hits", n, c)
	}
}

func TestQuickPickProperties(t *testing.T) {
	sold := []uint32{2, 5, 9}
	for i := 0; i < 200; i++ {
		picked, err := quickPick(10, sold, 4)
		require.NoError(t, err)
		require.Len(t, picked, 4)
		seen := map[uint32]bool{}
		for j, n := range picked {
			assert.GreaterOrEqual(t, n, uint32(1))
			assert.LessOrEqual(t, n, uint32(10))
			assert.NotContains(t, sold, n)
			assert.False(t, seen[n], "duplicate %d in pick", n)
			seen[n] = true
			if j > 0 {
				assert.Less(t, picked[j-1], n, "pick not ascending")
			}
		}
	}
}

func TestQuickPickExactlyRemaining(t *testing.T) {
	sold := []uint32{1, 2, 3, 4, 5, 6, 7}
	picked, err := quickPick(10, sold, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{8, 9, 10}, picked)
}

func TestQuickPickInsufficientAvailability(t *testing.T) {
	sold := []uint32{1, 2, 3, 4, 5, 6, 7, 8}
	_, err := quickPick(10, sold, 3)
	assert.ErrorIs(t, err, ErrInsufficientAvailability)
}

func TestQuickPickEventuallyCoversAllFreeNumbers(t *testing.T) {
	sold := []uint32{4, 8}
	free := map[uint32]bool{1: false, 2: false, 3: false, 5: false, 6: false, 7: false, 9: false, 10: false}
	for i := 0; i < 1000; i++ {
		picked, err := quickPick(10, sold, 1)
		require.NoError(t, err)
		require.Len(t, picked, 1)
		free[picked[0]] = true
	}
	for n, hit := range free {
		assert.True(t, hit, "free number %d never suggested", n)
	}
}
