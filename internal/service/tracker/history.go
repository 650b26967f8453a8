package tracker

import (
	"context"
	"fmt"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// History returns a copy of the date-keyed archive of closed work days.
func (s *Service) History(_ context.Context) domain.History {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(domain.History, len(s.history))
	for key, day := range s.history {
		out[key] = day
	}
	return out
}

// DayDetails returns the archived day for a YYYY-MM-DD key.
// Returns ErrNotFound when the date was never archived.
func (s *Service) DayDetails(_ context.Context, dateKey string) (domain.ArchivedDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.history[dateKey]
	if !ok {
		return domain.ArchivedDay{}, fmt.Errorf("day %s: %w", dateKey, domain.ErrNotFound)
	}
	return day, nil
}
