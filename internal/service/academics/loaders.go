package academics

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/scolary/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// batchSource is the batched lookup the loaders call.
type batchSource interface {
	JourneysByMentions(ctx context.Context, mentionIDs []int64) ([]domain.Journey, error)
	TeachingUnitsByJourneys(ctx context.Context, journeyIDs []int64) ([]domain.TeachingUnit, error)
}

// Loaders batches per-parent lookups issued while rendering one screen
// (journeys of each listed mention, teaching units of each listed journey)
// into single requests. Loaders keep results for their lifetime; create one
// set per screen load.
type Loaders struct {
	JourneysByMentionID      *dataloader.Loader[int64, []domain.Journey]
	TeachingUnitsByJourneyID *dataloader.Loader[int64, []domain.TeachingUnit]
}

// NewLoaders creates a new set of loaders backed by src.
func NewLoaders(src batchSource) *Loaders {
	return &Loaders{
		JourneysByMentionID:      newLoader(newJourneysBatchFn(src)),
		TeachingUnitsByJourneyID: newLoader(newTeachingUnitsBatchFn(src)),
	}
}

// newLoader creates a dataloader.Loader with standard batch parameters.
func newLoader[V any](batchFn dataloader.BatchFunc[int64, V]) *dataloader.Loader[int64, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[int64, V](wait),
		dataloader.WithBatchCapacity[int64, V](maxBatch),
	)
}

// ---------------------------------------------------------------------------
// Journeys by MentionID
// ---------------------------------------------------------------------------

func newJourneysBatchFn(src batchSource) dataloader.BatchFunc[int64, []domain.Journey] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[[]domain.Journey] {
		journeys, err := src.JourneysByMentions(ctx, keys)
		if err != nil {
			return errorResults[[]domain.Journey](len(keys), err)
		}

		grouped := make(map[int64][]domain.Journey, len(keys))
		for _, j := range journeys {
			grouped[j.MentionID] = append(grouped[j.MentionID], j)
		}

		return mapResults(keys, grouped, emptySlice[domain.Journey])
	}
}

// ---------------------------------------------------------------------------
// Teaching units by JourneyID
// ---------------------------------------------------------------------------

func newTeachingUnitsBatchFn(src batchSource) dataloader.BatchFunc[int64, []domain.TeachingUnit] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[[]domain.TeachingUnit] {
		units, err := src.TeachingUnitsByJourneys(ctx, keys)
		if err != nil {
			return errorResults[[]domain.TeachingUnit](len(keys), err)
		}

		grouped := make(map[int64][]domain.TeachingUnit, len(keys))
		for _, u := range units {
			grouped[u.JourneyID] = append(grouped[u.JourneyID], u)
		}

		return mapResults(keys, grouped, emptySlice[domain.TeachingUnit])
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// errorResults returns n results all carrying err.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []int64, grouped map[int64]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

// emptySlice returns a non-nil empty slice.
func emptySlice[T any]() []T {
	return []T{}
}
