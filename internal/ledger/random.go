package ledger

import (
	"crypto/rand"
	"math/big"
	"sort"
)

// Winner selection and quick-pick both draw from crypto/rand.  The draw
// decides who gets a paid prize, so the source must not be predictable
// by participants; math/rand seeded from the clock would be.

// randIndex returns a uniform random int in [0, n).
func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// pickWinner selects one element uniformly from the sold set.  Every
// sold ticket has equal probability 1/len(sold), independent of how
// many tickets any one purchaser holds.
func pickWinner(sold []uint32) (uint32, error) {
	if len(sold) == 0 {
		return 0, ErrNoParticipants
	}
	i, err := randIndex(len(sold))
	if err != nil {
		return 0, err
	}
	return sold[i], nil
}

// quickPick returns count distinct numbers drawn uniformly from the
// unsold part of [1, total].  It does not mutate anything; the caller
// only gets a suggestion, the numbers stay free until purchased.
func quickPick(total uint32, sold []uint32, count int) ([]uint32, error) {
	taken := make(map[uint32]struct{}, len(sold))
	for _, n := range sold {
		taken[n] = struct{}{}
	}
	free := make([]uint32, 0, int(total)-len(taken))
	for n := uint32(1); n <= total; n++ {
		if _, ok := taken[n]; !ok {
			free = append(free, n)
		}
	}
	if count > len(free) {
		return nil, ErrInsufficientAvailability
	}
	// Partial Fisher-Yates: after i swaps the first i elements are a
	// uniform sample without repetition.
	for i := 0; i < count; i++ {
		j, err := randIndex(len(free) - i)
		if err != nil {
			return nil, err
		}
		free[i], free[i+j] = free[i+j], free[i]
	}
	picked := free[:count]
	sort.Slice(picked, func(a, b int) bool { return picked[a] < picked[b] })
	return picked, nil
}
