package scheduling

import "math/rand"

// singlePointCrossover swaps the suffixes of a and b at a single uniformly
// chosen cut point, turning them into their own two children in place. Both
// slices must share the same length (the chromosome length is invariant
// across a run).
func singlePointCrossover(a, b Chromosome, rng *rand.Rand) {
	if len(a) == 0 || len(a) != len(b) {
		return
	}
	cut := rng.Intn(len(a))
	for i := cut; i < len(a); i++ {
		a[i], b[i] = b[i], a[i]
	}
}

type mutationKind int

const (
	mutateChangeRoom mutationKind = iota
	mutateChangeTime
	mutateChangeTeacher
	mutateSwapTimes
	mutationKindCount
)

// mutate applies one of the four mutation kinds, chosen uniformly, to a
// single gene (or, for SwapTimes, a pair of genes) in place. A mutation
// whose candidate set is empty is a no-op rather than an error.
func mutate(genes Chromosome, demand []Demand, candidates *CandidateSets, rng *rand.Rand) {
	if len(genes) == 0 {
		return
	}
	i := rng.Intn(len(genes))
	d := demand[i]

	switch mutationKind(rng.Intn(int(mutationKindCount))) {
	case mutateChangeRoom:
		rooms := candidates.RoomsFor(d.SubjectID, candidates.ClassDepartment(d.ClassID))
		if len(rooms) > 0 {
			genes[i].RoomID = pickOne(rooms, rng)
		}
	case mutateChangeTime:
		slots := candidates.AllTimeSlotIDs()
		if len(slots) > 0 {
			genes[i].TimeSlotID = pickOne(slots, rng)
		}
	case mutateChangeTeacher:
		teachers := candidates.TeachersFor(d.SubjectID)
		if len(teachers) > 0 {
			genes[i].TeacherID = pickOne(teachers, rng)
		}
	case mutateSwapTimes:
		if len(genes) < 2 {
			return
		}
		j := rng.Intn(len(genes))
		for j == i {
			j = rng.Intn(len(genes))
		}
		genes[i].TimeSlotID, genes[j].TimeSlotID = genes[j].TimeSlotID, genes[i].TimeSlotID
	}
}
