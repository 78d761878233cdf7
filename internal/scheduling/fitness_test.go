package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

func strPtr(s string) *string { return &s }

func allHardFlags() models.HardConstraintFlags {
	return models.HardConstraintFlags{TeacherConflict: true, ClassConflict: true, RoomTypeMatch: true}
}

func baseCandidates() *CandidateSets {
	return &CandidateSets{
		teachersForSubject: map[int64][]int64{1: {10, 11}},
		allTimeSlotIDs:     []int64{100, 101},
		classDepartment:    map[int64]int64{1: 1},
		subjectByID:        map[int64]models.Subject{1: {ID: 1, RequiredRoomType: strPtr("lab")}},
		roomByID:           map[int64]models.Room{1: {ID: 1, Type: "lab"}, 2: {ID: 2, Type: "classroom"}},
		teacherByID:        map[int64]models.Teacher{10: {ID: 10}, 11: {ID: 11}},
		qualified:          map[int64]map[int64]bool{10: {1: true}},
		unavailable:        map[int64]map[int64]bool{},
		roomDeptAllow:      map[int64]map[int64]bool{},
	}
}

func TestFitnessPenalizesUnqualifiedTeacher(t *testing.T) {
	candidates := baseCandidates()
	demand := []Demand{{ClassID: 1, SubjectID: 1}}
	params := fitnessParams{hard: allHardFlags()}

	qualified := Chromosome{{TeacherID: 10, RoomID: 1, TimeSlotID: 100}}
	unqualified := Chromosome{{TeacherID: 11, RoomID: 1, TimeSlotID: 100}}

	qualifiedScore := Fitness(qualified, demand, candidates, params)
	unqualifiedScore := Fitness(unqualified, demand, candidates, params)

	assert.Equal(t, baseFitnessScore, qualifiedScore)
	assert.Equal(t, baseFitnessScore-hardPenalty, unqualifiedScore)
	assert.Greater(t, qualifiedScore, unqualifiedScore)
}

func TestFitnessPenalizesRoomTypeMismatch(t *testing.T) {
	candidates := baseCandidates()
	demand := []Demand{{ClassID: 1, SubjectID: 1}}
	params := fitnessParams{hard: allHardFlags()}

	matching := Chromosome{{TeacherID: 10, RoomID: 1, TimeSlotID: 100}}
	mismatched := Chromosome{{TeacherID: 10, RoomID: 2, TimeSlotID: 100}}

	assert.Equal(t, baseFitnessScore, Fitness(matching, demand, candidates, params))
	assert.Equal(t, baseFitnessScore-hardPenalty, Fitness(mismatched, demand, candidates, params))
}

func TestFitnessPenalizesTeacherAndRoomDoubleBooking(t *testing.T) {
	candidates := baseCandidates()
	demand := []Demand{{ClassID: 1, SubjectID: 1}, {ClassID: 2, SubjectID: 1}}
	params := fitnessParams{hard: allHardFlags()}

	genes := Chromosome{
		{TeacherID: 10, RoomID: 1, TimeSlotID: 100},
		{TeacherID: 10, RoomID: 1, TimeSlotID: 100},
	}

	// One teacher-conflict pair and one room-conflict pair (room
	// double-booking is always penalized regardless of flags); the two
	// genes belong to different classes so no class-conflict applies.
	score := Fitness(genes, demand, candidates, params)
	assert.Equal(t, baseFitnessScore-hardPenalty*2, score)
}

func TestFitnessNeverGoesNegative(t *testing.T) {
	candidates := baseCandidates()
	params := fitnessParams{hard: allHardFlags()}

	var genes Chromosome
	var demand []Demand
	for i := 0; i < 50; i++ {
		genes = append(genes, Gene{TeacherID: 11, RoomID: 2, TimeSlotID: 100})
		demand = append(demand, Demand{ClassID: 1, SubjectID: 1})
	}

	score := Fitness(genes, demand, candidates, params)
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestFitnessDisabledFlagsSkipHardPenalties(t *testing.T) {
	candidates := baseCandidates()
	demand := []Demand{{ClassID: 1, SubjectID: 1}}
	params := fitnessParams{} // every hard flag off; room double-booking still always applies

	unqualified := Chromosome{{TeacherID: 11, RoomID: 2, TimeSlotID: 100}}
	score := Fitness(unqualified, demand, candidates, params)
	assert.Equal(t, baseFitnessScore, score)
}
