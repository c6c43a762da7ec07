package models

// RatingScaleMin and RatingScaleMax bound every rating value.
const (
	RatingScaleMin = 1
	RatingScaleMax = 10
)

// parameters is the fixed, ordered list of rating criteria. The order is the
// canonical column order for statistics and reports.
var parameters = [...]string{
	"Knowledge of the subject",
	"Coming well prepared for the class",
	"Giving clear explanations",
	"Command of language",
	"Clear and audible voice",
	"Holding the attention of students through the class",
	"Providing more matter than in the textbooks",
	"Capability to clear the doubts of students",
	"Encouraging students to ask questions and participate",
	"Appreciating students as and when deserving",
	"Willingness to help students even out of the class",
	"Return of valued test papers/records in time",
	"Punctuality and following timetable schedule",
	"Coverage of syllabus",
	"Impartial (teaching all students alike)",
}

var parameterIndex = func() map[string]int {
	idx := make(map[string]int, len(parameters))
	for i, p := range parameters {
		idx[p] = i
	}
	return idx
}()

// Parameters returns the rating criteria in canonical order. Callers own the slice.
func Parameters() []string {
	out := make([]string, len(parameters))
	copy(out, parameters[:])
	return out
}

// ParameterCount is the number of rating criteria.
func ParameterCount() int { return len(parameters) }

// IsValidParameter reports whether name is one of the rating criteria.
func IsValidParameter(name string) bool {
	_, ok := parameterIndex[name]
	return ok
}

// IndexOf returns the canonical position of name.
func IndexOf(name string) (int, bool) {
	i, ok := parameterIndex[name]
	return i, ok
}

// IsValidRating reports whether v lies on the rating scale.
func IsValidRating(v int) bool {
	return v >= RatingScaleMin && v <= RatingScaleMax
}
