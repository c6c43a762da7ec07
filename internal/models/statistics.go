package models

// ParameterStat summarises one parameter within a slot.
type ParameterStat struct {
	Average      float64 `json:"average"`
	Percentage   float64 `json:"percentage"`
	TotalRatings int     `json:"totalRatings"`
}

// SlotStatistics aggregates one faculty's ratings within a single slot.
type SlotStatistics struct {
	Slot                   int                      `json:"slot"`
	ParameterStats         map[string]ParameterStat `json:"parameterStats"`
	OverallAverage         float64                  `json:"overallAverage"`
	SatisfactionPercentage float64                  `json:"satisfactionPercentage"`
	RatingDistribution     map[int]int              `json:"ratingDistribution"`
	ResponseCount          int                      `json:"responseCount"`
	TotalRatings           int                      `json:"totalRatings"`
}

// FacultyStatistics aggregates every rating received by one faculty member.
// OverallAverage and SatisfactionPercentage span all slots combined.
type FacultyStatistics struct {
	FacultyID              string          `json:"facultyId"`
	TotalResponses         int             `json:"totalResponses"`
	TotalRatings           int             `json:"totalRatings"`
	OverallAverage         float64         `json:"overallAverage"`
	SatisfactionPercentage float64         `json:"satisfactionPercentage"`
	HasSlot1               bool            `json:"hasSlot1"`
	HasSlot2               bool            `json:"hasSlot2"`
	Slot1                  *SlotStatistics `json:"slot1,omitempty"`
	Slot2                  *SlotStatistics `json:"slot2,omitempty"`
}

// Feedback cycles a batch may belong to.
const (
	SlotPrevious = 1
	SlotLatest   = 2
)

// IsValidSlot reports whether n names a supported feedback cycle.
func IsValidSlot(n int) bool {
	return n == SlotPrevious || n == SlotLatest
}

// Slot returns the statistics block for slot n, or nil when it has no data.
func (s *FacultyStatistics) Slot(n int) *SlotStatistics {
	switch n {
	case SlotPrevious:
		return s.Slot1
	case SlotLatest:
		return s.Slot2
	}
	return nil
}

// PresentSlots returns the slot blocks that carry data, in slot order.
func (s *FacultyStatistics) PresentSlots() []*SlotStatistics {
	out := make([]*SlotStatistics, 0, 2)
	if s.Slot1 != nil {
		out = append(out, s.Slot1)
	}
	if s.Slot2 != nil {
		out = append(out, s.Slot2)
	}
	return out
}

// SlotComparison contrasts a faculty's slot 1 and slot 2 overall averages.
type SlotComparison struct {
	FacultyID    string  `json:"facultyId"`
	Slot1Average float64 `json:"slot1Average"`
	Slot2Average float64 `json:"slot2Average"`
	Improvement  float64 `json:"improvement"`
	HasSlot1     bool    `json:"hasSlot1"`
	HasSlot2     bool    `json:"hasSlot2"`
}

// FacultyRanking is one row of a satisfaction leaderboard.
type FacultyRanking struct {
	Faculty                FacultySummary `json:"faculty"`
	OverallAverage         float64        `json:"overallAverage"`
	SatisfactionPercentage float64        `json:"satisfactionPercentage"`
	TotalResponses         int            `json:"totalResponses"`
}

// DepartmentRollup aggregates faculty statistics across a college department.
type DepartmentRollup struct {
	College          string           `json:"college"`
	Department       string           `json:"department"`
	FacultyCount     int              `json:"facultyCount"`
	FacultyWithData  int              `json:"facultyWithData"`
	TotalResponses   int              `json:"totalResponses"`
	MeanSatisfaction float64          `json:"meanSatisfaction"`
	TopFaculty       []FacultyRanking `json:"topFaculty"`
}

// BatchFacultyStatistics is one faculty entry of a batch report. Stats is nil
// when the faculty has no ratings within the batch.
type BatchFacultyStatistics struct {
	Faculty FacultySummary     `json:"faculty"`
	HasData bool               `json:"hasData"`
	Stats   *FacultyStatistics `json:"stats,omitempty"`
}

// BatchStatistics is the batch-scoped statistics payload.
type BatchStatistics struct {
	BatchID        string                   `json:"batchId"`
	Slot           int                      `json:"slot"`
	TotalResponses int                      `json:"totalResponses"`
	Faculty        []BatchFacultyStatistics `json:"faculty"`
}

// FacultyAnalytics is one row of the satisfaction-sorted analytics listing.
type FacultyAnalytics struct {
	FacultyRanking
	Comparison SlotComparison `json:"comparison"`
}

// ScopeSummary aggregates everything in view, one college, or one department.
// SatisfactionPercentage averages faculty with data only.
type ScopeSummary struct {
	College                string  `json:"college,omitempty"`
	Department             string  `json:"department,omitempty"`
	FacultyCount           int     `json:"facultyCount"`
	FacultyWithData        int     `json:"facultyWithData"`
	BatchCount             int     `json:"batchCount"`
	TotalResponses         int     `json:"totalResponses"`
	SatisfactionPercentage float64 `json:"satisfactionPercentage"`
}

// StatisticsOverview is the dashboard summary of a viewer's scope.
type StatisticsOverview struct {
	Totals        ScopeSummary     `json:"totals"`
	Colleges      []ScopeSummary   `json:"colleges"`
	Departments   []ScopeSummary   `json:"departments"`
	TopFaculty    []FacultyRanking `json:"topFaculty"`
	RecentBatches []Batch          `json:"recentBatches"`
}
