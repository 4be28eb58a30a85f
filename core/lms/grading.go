package lms

// gradePoints maps letter grades to grade points. B- is worth 3.7, same as A-.
var gradePoints = map[string]float64{
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 3.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D+": 1.3,
	"D":  1.0,
	"D-": 0.7,
}

// gradeThresholds are checked in order; a value strictly above a threshold earns its letter.
var gradeThresholds = []struct {
	min    float64
	letter string
}{
	{3.7, "A"},
	{3.3, "A-"},
	{3.0, "B+"},
	{2.7, "B"},
	{2.3, "B-"},
	{2.0, "C+"},
	{1.7, "C"},
	{1.3, "C-"},
	{1.0, "D+"},
	{0.7, "D"},
	{0.0, "D-"},
}

// GradeToPoint returns the grade points of a letter grade; unknown letters are worth 0.
func GradeToPoint(grade string) float64 {
	return gradePoints[grade]
}

// PointToGrade converts a value on the 4 point scale to a letter grade.
func PointToGrade(point float64) string {
	for _, th := range gradeThresholds {
		if point > th.min {
			return th.letter
		}
	}
	return "E"
}

// ScaledScore puts a student's work on the 4 point scale:
// the weighted earned points over the weighted points of every assignment of the class.
// Ungraded (zero score) submissions earn nothing. Returns 0 when the class has no points.
func ScaledScore(items []WorkItem) float64 {
	var total, earned int
	for _, it := range items {
		total += it.Points * it.Weight
		if it.Submitted && it.Score != 0 {
			earned += it.Score * it.Weight
		}
	}
	if total == 0 {
		return 0
	}
	return float64(earned) * 4 / float64(total)
}

// ComputeGrade returns the letter grade earned by a student's work.
func ComputeGrade(items []WorkItem) string {
	return PointToGrade(ScaledScore(items))
}

// GPA averages the grade points of the graded grades; 0 when none is graded.
func GPA(grades []string) float64 {
	var sum float64
	var count int
	for _, g := range grades {
		if g == NoGrade || g == "" {
			continue
		}
		sum += GradeToPoint(g)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
