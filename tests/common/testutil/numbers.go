//go:build unit || e2e

package testutil

import (
	"fmt"
	"sync"

	"storefront-checkout/internal/domain/order"
)

// SequenceNumbers hands out ORD-100001, ORD-100002, ... or replays Fixed
// first when set.
type SequenceNumbers struct {
	mu    sync.Mutex
	next  int
	Fixed []order.Number
}

func (s *SequenceNumbers) Next() (order.Number, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Fixed) > 0 {
		n := s.Fixed[0]
		s.Fixed = s.Fixed[1:]
		return n, nil
	}
	s.next++
	return order.Number(fmt.Sprintf("ORD-%d", 100000+s.next)), nil
}
