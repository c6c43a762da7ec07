package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/feedback-api/internal/models"
)

func rec(submission string, slot int, parameter string, value int) models.RatingRecord {
	return models.RatingRecord{SubmissionID: submission, FacultyID: "F1", Parameter: parameter, Value: value, Slot: slot}
}

func TestComputeFacultyStatisticsNoData(t *testing.T) {
	stats, err := ComputeFacultyStatistics("F1", nil)
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestComputeFacultyStatisticsSingleRatingIsExact(t *testing.T) {
	for v := models.RatingScaleMin; v <= models.RatingScaleMax; v++ {
		stats, err := ComputeFacultyStatistics("F1", []models.RatingRecord{rec("s1", 1, param(0), v)})
		require.NoError(t, err)
		assert.Equal(t, float64(v), stats.Slot1.ParameterStats[param(0)].Average)
		assert.Equal(t, float64(v), stats.Slot1.OverallAverage)
		assert.Equal(t, float64(v), stats.OverallAverage)
		assert.Equal(t, float64(v*10), stats.SatisfactionPercentage)
	}
}

func TestComputeFacultyStatisticsTwoSubmissions(t *testing.T) {
	stats, err := ComputeFacultyStatistics("F1", []models.RatingRecord{
		rec("s1", 2, param(0), 4),
		rec("s2", 2, param(0), 8),
	})
	require.NoError(t, err)

	slot := stats.Slot2
	require.NotNil(t, slot)
	assert.Nil(t, stats.Slot1)
	assert.False(t, stats.HasSlot1)
	assert.True(t, stats.HasSlot2)

	ps := slot.ParameterStats[param(0)]
	assert.Equal(t, 6.0, ps.Average)
	assert.Equal(t, 60.0, ps.Percentage)
	assert.Equal(t, 2, ps.TotalRatings)
	assert.Equal(t, 2, slot.ResponseCount)
	assert.Equal(t, 2, slot.TotalRatings)

	require.Len(t, slot.RatingDistribution, 10)
	for v := 1; v <= 10; v++ {
		want := 0
		if v == 4 || v == 8 {
			want = 1
		}
		assert.Equal(t, want, slot.RatingDistribution[v], "bucket %d", v)
	}
}

func TestOverallAverageIsMeanOfParameterMeans(t *testing.T) {
	stats, err := ComputeFacultyStatistics("F1", []models.RatingRecord{
		rec("s1", 1, param(0), 10),
		rec("s2", 1, param(0), 10),
		rec("s3", 1, param(0), 10),
		rec("s1", 1, param(1), 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 6.0, stats.Slot1.OverallAverage)
	assert.Equal(t, 60.0, stats.Slot1.SatisfactionPercentage)
	assert.Equal(t, 3, stats.TotalResponses)
	assert.Equal(t, 4, stats.TotalRatings)
}

func TestRoundingIsHalfToEven(t *testing.T) {
	var records []models.RatingRecord
	for i, v := range []int{7, 7, 7, 7, 6, 5, 5, 5} {
		records = append(records, rec(string(rune('a'+i)), 1, param(0), v))
	}
	stats, err := ComputeFacultyStatistics("F1", records)
	require.NoError(t, err)

	ps := stats.Slot1.ParameterStats[param(0)]
	assert.Equal(t, 6.12, ps.Average)
	assert.Equal(t, 61.2, ps.Percentage)
	assert.Equal(t, 6.12, stats.OverallAverage)
}

func TestRoundHalfEven(t *testing.T) {
	assert.Equal(t, 6.12, roundAverage(6.125))
	assert.Equal(t, 6.38, roundAverage(6.375))
	assert.Equal(t, 61.2, roundPercentage(61.25))
	assert.Equal(t, 61.4, roundPercentage(61.35000000000001))
}

func TestDistributionSumsToRatingCountPerSlot(t *testing.T) {
	records := []models.RatingRecord{
		rec("s1", 1, param(0), 1),
		rec("s1", 1, param(1), 10),
		rec("s1", 1, param(2), 5),
		rec("s2", 2, param(0), 7),
		rec("s2", 2, param(14), 7),
	}
	stats, err := ComputeFacultyStatistics("F1", records)
	require.NoError(t, err)

	for _, slot := range stats.PresentSlots() {
		sum := 0
		for _, n := range slot.RatingDistribution {
			sum += n
		}
		assert.Equal(t, slot.TotalRatings, sum, "slot %d", slot.Slot)
		total := 0
		for _, ps := range slot.ParameterStats {
			total += ps.TotalRatings
		}
		assert.Equal(t, slot.TotalRatings, total)
	}
	assert.Equal(t, 5, stats.TotalRatings)
	assert.Equal(t, 2, stats.TotalResponses)
}

func TestComputeFacultyStatisticsIsOrderIndependent(t *testing.T) {
	records := []models.RatingRecord{
		rec("s1", 1, param(0), 3),
		rec("s1", 1, param(5), 9),
		rec("s2", 1, param(3), 7),
		rec("s3", 1, param(9), 4),
		rec("s3", 1, param(12), 8),
	}
	reversed := make([]models.RatingRecord, len(records))
	for i := range records {
		reversed[len(records)-1-i] = records[i]
	}

	first, err := ComputeFacultyStatistics("F1", records)
	require.NoError(t, err)
	second, err := ComputeFacultyStatistics("F1", reversed)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeFacultyStatisticsSkipsUnknownSlotsAndParameters(t *testing.T) {
	stats, err := ComputeFacultyStatistics("F1", []models.RatingRecord{
		rec("s1", 3, param(0), 5),
		rec("s1", 1, "Sense of humour", 5),
		rec("s1", 1, param(0), 11),
	})
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCompareSlotsOnlyFirstSlot(t *testing.T) {
	cmp := CompareSlots("F1", []models.RatingRecord{rec("s1", 1, param(0), 8)})
	assert.True(t, cmp.HasSlot1)
	assert.False(t, cmp.HasSlot2)
	assert.Equal(t, 8.0, cmp.Slot1Average)
	assert.Equal(t, 0.0, cmp.Slot2Average)
	assert.Equal(t, 0.0, cmp.Improvement)
}

func TestCompareSlotsImprovement(t *testing.T) {
	cmp := CompareSlots("F1", []models.RatingRecord{
		rec("s1", 1, param(0), 5),
		rec("s1", 1, param(1), 6),
		rec("s2", 2, param(0), 8),
	})
	assert.Equal(t, 5.5, cmp.Slot1Average)
	assert.Equal(t, 8.0, cmp.Slot2Average)
	assert.Equal(t, 2.5, cmp.Improvement)
}

func TestCompareSlotsDecline(t *testing.T) {
	cmp := CompareSlots("F1", []models.RatingRecord{
		rec("s1", 1, param(0), 9),
		rec("s2", 2, param(0), 6),
	})
	assert.Equal(t, -3.0, cmp.Improvement)
}

func TestFacultyLevelFiguresSpanBothSlots(t *testing.T) {
	stats, err := ComputeFacultyStatistics("F1", []models.RatingRecord{
		rec("s1", 1, param(0), 4),
		rec("s2", 2, param(0), 8),
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, stats.Slot(1).OverallAverage)
	assert.Equal(t, 8.0, stats.Slot(2).OverallAverage)
	assert.Equal(t, 6.0, stats.OverallAverage)
	assert.Equal(t, 60.0, stats.SatisfactionPercentage)
}
