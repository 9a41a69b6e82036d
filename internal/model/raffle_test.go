package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		status    string
		canSell   bool
		canDraw   bool
		canCancel bool
	}{
		{RaffleActive, true, true, true},
		{RaffleSoldOut, false, true, true},
		{RaffleDrawn, false, false, false},
		{RaffleCancelled, false, false, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.canSell, CanSell(c.status), "CanSell(%s)", c.status)
		assert.Equal(t, c.canDraw, CanDraw(c.status), "CanDraw(%s)", c.status)
		assert.Equal(t, c.canCancel, CanCancel(c.status), "CanCancel(%s)", c.status)
	}
}
