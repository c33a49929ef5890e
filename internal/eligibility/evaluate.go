package eligibility

// Evaluate applies the fixed GPA and test-score thresholds.
func Evaluate(gpa, score float64) (bool, []string) {
	switch {
	case gpa >= 3.5 && score >= 90:
		return true, []string{"Top-tier programs", "Scholarship-focused options"}
	case gpa >= 3.0 && score >= 80:
		return true, []string{"Solid programs", "Consider mid-tier schools"}
	default:
		return false, []string{"Foundational programs", "Language or academic prep first"}
	}
}
