// Package momentum derives the repurchase momentum index from hour x day
// segment aggregates and rescales it onto a fixed [0,10] range.
package momentum

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"order-momentum-lab/internal/domain"
)

// ErrNonPositiveVolume is returned when a segment reaches the scorer with a
// total item volume that cannot feed a logarithm.
var ErrNonPositiveVolume = errors.New("total item volume must be positive")

// Score computes one momentum row per hour x day aggregate. The raw score is
// the product of the segment's cadence lift against the global mean and the
// natural log of its total item volume; raw scores are then min-max rescaled
// over the full segment set. Segments with no cadence signal (only first-ever
// orders) carry no repurchase information and are omitted from the output.
//
// Results are sorted by descending scaled score, ties broken by day then hour.
func Score(aggregates []*domain.SegmentAggregate, globalMeanCadence float64) ([]*domain.MomentumScore, error) {
	scores := make([]*domain.MomentumScore, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.MeanCadence == nil {
			continue
		}
		if agg.Hour == nil || agg.Day == nil {
			return nil, fmt.Errorf("segment %q: not an hour x day aggregate", agg.Label)
		}
		if agg.TotalItemVolume == nil || *agg.TotalItemVolume <= 0 {
			return nil, fmt.Errorf("segment %q: %w", agg.Label, ErrNonPositiveVolume)
		}

		lift := domain.Round2(globalMeanCadence - *agg.MeanCadence)
		logVolume := domain.Round2(math.Log(*agg.TotalItemVolume))

		scores = append(scores, &domain.MomentumScore{
			HourOfDay:   *agg.Hour,
			DayOfWeek:   *agg.Day,
			Label:       agg.Label,
			CadenceLift: lift,
			LogVolume:   logVolume,
			RawScore:    lift * logVolume,
		})
	}
	if len(scores) == 0 {
		return nil, nil
	}

	rescale(scores)

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].ScaledScore != scores[j].ScaledScore {
			return scores[i].ScaledScore > scores[j].ScaledScore
		}
		if scores[i].DayOfWeek != scores[j].DayOfWeek {
			return scores[i].DayOfWeek < scores[j].DayOfWeek
		}
		return scores[i].HourOfDay < scores[j].HourOfDay
	})
	return scores, nil
}

// rescale maps raw scores onto [0,10] with min-max normalization over the
// current segment set. The baseline is recomputed from scratch every run, so
// scaled scores are only comparable within a single run.
func rescale(scores []*domain.MomentumScore) {
	minRaw, maxRaw := scores[0].RawScore, scores[0].RawScore
	for _, s := range scores[1:] {
		if s.RawScore < minRaw {
			minRaw = s.RawScore
		}
		if s.RawScore > maxRaw {
			maxRaw = s.RawScore
		}
	}

	if maxRaw == minRaw {
		for _, s := range scores {
			s.ScaledScore = 5.0
		}
		return
	}

	span := maxRaw - minRaw
	for _, s := range scores {
		s.ScaledScore = domain.Round2((s.RawScore - minRaw) / span * 10)
	}
}
