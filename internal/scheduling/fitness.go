package scheduling

import (
	"math"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

const (
	baseFitnessScore        = 1000.0
	hardPenalty             = 100.0
	softPenalty             = 10.0
	softWorkloadPenaltyUnit = 10.0
)

// fitnessParams carries the toggleable constraint categories a run was
// configured with. Room double-booking is deliberately absent from every
// flag check below: it is a physical impossibility, not a preference, and
// is always penalized.
type fitnessParams struct {
	hard models.HardConstraintFlags
	soft models.SoftConstraintFlags
}

func newFitnessParams(p models.GAParams) fitnessParams {
	return fitnessParams{hard: p.HardConstraints, soft: p.SoftConstraints}
}

// Fitness scores a chromosome per the documented penalty table: a base of
// 1000 with penalties subtracted per violating pair, clamped to a floor of
// 0. Higher is better.
//
// The wire format exposes three hard toggles (teacherConflict, classConflict,
// roomTypeMatch) for six penalty categories. teacherConflict also gates the
// unqualified-teacher penalty (both describe "this teacher shouldn't be in
// this slot"), and roomTypeMatch also gates the room-department penalty
// (both describe "this room shouldn't host this class"). Room double-booking
// is never gated.
func Fitness(genes Chromosome, demand []Demand, candidates *CandidateSets, params fitnessParams) float64 {
	score := baseFitnessScore

	type teacherSlot struct{ teacherID, slotID int64 }
	type classSlot struct{ classID, slotID int64 }
	type roomSlot struct{ roomID, slotID int64 }

	teacherSlots := make(map[teacherSlot]int)
	classSlots := make(map[classSlot]int)
	roomSlots := make(map[roomSlot]int)
	loadByTeacher := make(map[int64]int)

	for i, g := range genes {
		d := demand[i]

		if g.TeacherID != sentinelID {
			teacherSlots[teacherSlot{g.TeacherID, g.TimeSlotID}]++
			loadByTeacher[g.TeacherID]++
		}
		classSlots[classSlot{d.ClassID, g.TimeSlotID}]++
		if g.RoomID != sentinelID {
			roomSlots[roomSlot{g.RoomID, g.TimeSlotID}]++
		}

		if params.hard.RoomTypeMatch && g.RoomID != sentinelID && !candidates.RoomTypeMatches(g.RoomID, d.SubjectID) {
			score -= hardPenalty
		}
		if params.hard.RoomTypeMatch && g.RoomID != sentinelID && !candidates.RoomAllowedForDepartment(g.RoomID, candidates.ClassDepartment(d.ClassID)) {
			score -= hardPenalty
		}
		if params.hard.TeacherConflict && g.TeacherID != sentinelID && !candidates.IsQualified(g.TeacherID, d.SubjectID) {
			score -= hardPenalty
		}
		if params.soft.TeacherPreference && g.TeacherID != sentinelID && candidates.IsUnavailable(g.TeacherID, g.TimeSlotID) {
			score -= softPenalty
		}
	}

	if params.hard.TeacherConflict {
		score -= hardPenalty * float64(pairCount(teacherSlots))
	}
	if params.hard.ClassConflict {
		score -= hardPenalty * float64(pairCount(classSlots))
	}
	// Room double-booking is always enforced, independent of any flag.
	score -= hardPenalty * float64(pairCount(roomSlots))

	if params.soft.WorkloadDistribution && len(loadByTeacher) > 0 {
		score -= softWorkloadPenaltyUnit * workloadStdDev(loadByTeacher, len(candidates.teacherByID))
	}

	if score < 0 {
		return 0
	}
	return score
}

// pairCount sums n·(n-1)/2 for every bucket holding more than one
// occurrence, the "count each collision pair exactly once" rule.
func pairCount[K comparable](buckets map[K]int) int {
	total := 0
	for _, n := range buckets {
		if n > 1 {
			total += n * (n - 1) / 2
		}
	}
	return total
}

// workloadStdDev computes the population standard deviation of gene counts
// across every teacher in the pool, not just those assigned at least one
// gene, so an idle teacher still contributes to imbalance.
func workloadStdDev(loadByTeacher map[int64]int, teacherCount int) float64 {
	if teacherCount == 0 {
		return 0
	}
	total := 0
	for _, n := range loadByTeacher {
		total += n
	}
	mean := float64(total) / float64(teacherCount)

	var variance float64
	counted := 0
	for _, n := range loadByTeacher {
		diff := float64(n) - mean
		variance += diff * diff
		counted++
	}
	// Teachers with zero assigned genes aren't present in loadByTeacher but
	// still deviate from the mean by exactly -mean.
	for i := counted; i < teacherCount; i++ {
		variance += mean * mean
	}
	variance /= float64(teacherCount)
	return math.Sqrt(variance)
}
