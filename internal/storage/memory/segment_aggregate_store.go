package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// SegmentAggregateStore is an in-memory implementation of storage.SegmentAggregateStore.
type SegmentAggregateStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SegmentAggregate // keyed by composite key
}

// NewSegmentAggregateStore creates a new in-memory segment aggregate store.
func NewSegmentAggregateStore() *SegmentAggregateStore {
	return &SegmentAggregateStore{
		data: make(map[string]*domain.SegmentAggregate),
	}
}

// segmentKey generates a unique key for an aggregate.
func segmentKey(dimension domain.Dimension, label string) string {
	return fmt.Sprintf("%s|%s", dimension, label)
}

// InsertBulk adds multiple aggregates. Fails entire batch on duplicate
// (dimension, label).
func (s *SegmentAggregateStore) InsertBulk(_ context.Context, aggregates []*domain.SegmentAggregate) error {
	if len(aggregates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(aggregates))
	for _, a := range aggregates {
		if a == nil || !a.Dimension.IsValid() || a.Label == "" {
			return storage.ErrInvalidInput
		}
		key := segmentKey(a.Dimension, a.Label)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, a := range aggregates {
		copy := *a
		s.data[segmentKey(a.Dimension, a.Label)] = &copy
	}

	return nil
}

// GetByDimension retrieves all aggregates for one grouping dimension in the
// dimension's canonical order.
func (s *SegmentAggregateStore) GetByDimension(_ context.Context, dimension domain.Dimension) ([]*domain.SegmentAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SegmentAggregate
	for _, a := range s.data {
		if a.Dimension == dimension {
			copy := *a
			result = append(result, &copy)
		}
	}

	sortSegments(result)
	return result, nil
}

// GetAll retrieves all aggregates across dimensions, grouped by dimension
// name and canonically ordered within each.
func (s *SegmentAggregateStore) GetAll(_ context.Context) ([]*domain.SegmentAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SegmentAggregate, 0, len(s.data))
	for _, a := range s.data {
		copy := *a
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Dimension != result[j].Dimension {
			return result[i].Dimension < result[j].Dimension
		}
		return segmentLess(result[i], result[j])
	})

	return result, nil
}

// sortSegments orders a single-dimension slice canonically: numeric hour,
// week order, alphabetical day type, or (day, hour) for the cross.
func sortSegments(segments []*domain.SegmentAggregate) {
	sort.Slice(segments, func(i, j int) bool {
		return segmentLess(segments[i], segments[j])
	})
}

func segmentLess(a, b *domain.SegmentAggregate) bool {
	switch a.Dimension {
	case domain.DimensionHour:
		return derefInt(a.Hour) < derefInt(b.Hour)
	case domain.DimensionDay:
		return derefInt(a.Day) < derefInt(b.Day)
	case domain.DimensionDayType:
		return a.Label < b.Label
	default: // hour_day
		if derefInt(a.Day) != derefInt(b.Day) {
			return derefInt(a.Day) < derefInt(b.Day)
		}
		return derefInt(a.Hour) < derefInt(b.Hour)
	}
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

var _ storage.SegmentAggregateStore = (*SegmentAggregateStore)(nil)
