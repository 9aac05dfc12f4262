// Package scoring computes the effective Curriculum Aging Index for a graded
// syllabus, crediting the user for skill gaps they have since verified.
package scoring

import "math"

// EffectiveScore returns the aging index after crediting verified gaps.
//
// Each missing skill accounts for an equal share of the raw score; verifying
// a skill removes its share. The result is monotonically non-increasing in
// validatedCount and reaches exactly 0 once every gap is closed. With no
// gaps, or a raw score of 0, the raw score is returned unchanged.
func EffectiveScore(rawScore, missingCount, validatedCount int) int {
	if missingCount == 0 || rawScore == 0 {
		return rawScore
	}

	perSkill := float64(rawScore) / float64(missingCount)
	credited := validatedCount
	if credited > missingCount {
		credited = missingCount
	}
	reduced := float64(rawScore) - float64(credited)*perSkill

	score := int(math.Round(reduced))
	if score < 0 {
		return 0
	}
	return score
}

// Average returns the rounded mean of the given scores, or 0 for an empty
// slice.
func Average(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}
