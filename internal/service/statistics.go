package service

import (
	"errors"
	"math"

	"github.com/noah-isme/feedback-api/internal/models"
)

// ErrNoData reports that a faculty member has no ratings in the requested scope.
// It is an explicit empty state, not a failure.
var ErrNoData = errors.New("no ratings recorded")

type tally struct {
	sum   int
	count int
}

func (t tally) mean() float64 {
	if t.count == 0 {
		return 0
	}
	return float64(t.sum) / float64(t.count)
}

// ratingAggregate accumulates raw ratings for one scope (a slot, or all slots).
type ratingAggregate struct {
	params       map[string]*tally
	submissions  map[string]struct{}
	distribution map[int]int
	ratings      int
}

func newRatingAggregate() *ratingAggregate {
	return &ratingAggregate{
		params:       make(map[string]*tally),
		submissions:  make(map[string]struct{}),
		distribution: make(map[int]int),
	}
}

func (a *ratingAggregate) add(rec models.RatingRecord) {
	t, ok := a.params[rec.Parameter]
	if !ok {
		t = &tally{}
		a.params[rec.Parameter] = t
	}
	t.sum += rec.Value
	t.count++
	a.submissions[rec.SubmissionID] = struct{}{}
	a.distribution[rec.Value]++
	a.ratings++
}

// overall is the unweighted mean of the per-parameter means. Parameters are
// summed in registry order so repeated calls produce bit-identical results.
func (a *ratingAggregate) overall() float64 {
	var total float64
	var n int
	for _, p := range models.Parameters() {
		if t, ok := a.params[p]; ok {
			total += t.mean()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

type facultyAggregate struct {
	all   *ratingAggregate
	slots map[int]*ratingAggregate
}

func aggregateRatings(records []models.RatingRecord) *facultyAggregate {
	agg := &facultyAggregate{all: newRatingAggregate(), slots: make(map[int]*ratingAggregate)}
	for _, rec := range records {
		if !models.IsValidSlot(rec.Slot) || !models.IsValidParameter(rec.Parameter) || !models.IsValidRating(rec.Value) {
			continue
		}
		slot, ok := agg.slots[rec.Slot]
		if !ok {
			slot = newRatingAggregate()
			agg.slots[rec.Slot] = slot
		}
		slot.add(rec)
		agg.all.add(rec)
	}
	return agg
}

// ComputeFacultyStatistics aggregates one faculty member's ratings. It returns
// ErrNoData when records is empty.
func ComputeFacultyStatistics(facultyID string, records []models.RatingRecord) (*models.FacultyStatistics, error) {
	agg := aggregateRatings(records)
	if agg.all.ratings == 0 {
		return nil, ErrNoData
	}

	overall := agg.all.overall()
	stats := &models.FacultyStatistics{
		FacultyID:              facultyID,
		TotalResponses:         len(agg.all.submissions),
		TotalRatings:           agg.all.ratings,
		OverallAverage:         roundAverage(overall),
		SatisfactionPercentage: roundPercentage(satisfaction(overall)),
	}
	if slot, ok := agg.slots[models.SlotPrevious]; ok {
		stats.HasSlot1 = true
		stats.Slot1 = slotStatistics(models.SlotPrevious, slot)
	}
	if slot, ok := agg.slots[models.SlotLatest]; ok {
		stats.HasSlot2 = true
		stats.Slot2 = slotStatistics(models.SlotLatest, slot)
	}
	return stats, nil
}

func slotStatistics(slot int, agg *ratingAggregate) *models.SlotStatistics {
	params := make(map[string]models.ParameterStat, len(agg.params))
	for name, t := range agg.params {
		avg := t.mean()
		params[name] = models.ParameterStat{
			Average:      roundAverage(avg),
			Percentage:   roundPercentage(satisfaction(avg)),
			TotalRatings: t.count,
		}
	}

	distribution := make(map[int]int, models.RatingScaleMax)
	for v := models.RatingScaleMin; v <= models.RatingScaleMax; v++ {
		distribution[v] = agg.distribution[v]
	}

	overall := agg.overall()
	return &models.SlotStatistics{
		Slot:                   slot,
		ParameterStats:         params,
		OverallAverage:         roundAverage(overall),
		SatisfactionPercentage: roundPercentage(satisfaction(overall)),
		RatingDistribution:     distribution,
		ResponseCount:          len(agg.submissions),
		TotalRatings:           agg.ratings,
	}
}

// CompareSlots contrasts slot 1 and slot 2 overall averages. A missing slot
// reads as zero and leaves the improvement at zero.
func CompareSlots(facultyID string, records []models.RatingRecord) models.SlotComparison {
	agg := aggregateRatings(records)
	cmp := models.SlotComparison{FacultyID: facultyID}

	var slot1, slot2 float64
	if slot, ok := agg.slots[models.SlotPrevious]; ok {
		cmp.HasSlot1 = true
		slot1 = slot.overall()
		cmp.Slot1Average = roundAverage(slot1)
	}
	if slot, ok := agg.slots[models.SlotLatest]; ok {
		cmp.HasSlot2 = true
		slot2 = slot.overall()
		cmp.Slot2Average = roundAverage(slot2)
	}
	if cmp.HasSlot1 && cmp.HasSlot2 {
		cmp.Improvement = roundAverage(slot2 - slot1)
	}
	return cmp
}

// CountDistinctSubmissions counts the submissions contributing to records.
func CountDistinctSubmissions(records []models.RatingRecord) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.SubmissionID] = struct{}{}
	}
	return len(seen)
}

func satisfaction(average float64) float64 {
	return average * 100 / models.RatingScaleMax
}

// roundAverage rounds half-to-even at two decimals.
func roundAverage(v float64) float64 {
	return roundHalfEven(v, 2)
}

// roundPercentage rounds half-to-even at one decimal.
func roundPercentage(v float64) float64 {
	return roundHalfEven(v, 1)
}

func roundHalfEven(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.RoundToEven(v*scale) / scale
}
