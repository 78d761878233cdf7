package models

// HardConstraintFlags toggles individual hard-constraint categories. Room
// double-booking is always enforced regardless of these flags — it is a
// physical infeasibility, not a preference.
type HardConstraintFlags struct {
	TeacherConflict bool `json:"teacherConflict"`
	ClassConflict   bool `json:"classConflict"`
	RoomTypeMatch   bool `json:"roomTypeMatch"`
}

// SoftConstraintFlags toggles individual soft-constraint categories.
type SoftConstraintFlags struct {
	TeacherPreference   bool `json:"teacherPreference"`
	WorkloadDistribution bool `json:"workloadDistribution"`
}

// GAParams configures one genetic-scheduler run. Zero values are replaced
// by the configured defaults before a run starts.
type GAParams struct {
	PopulationSize  int     `json:"populationSize" validate:"omitempty,min=10,max=1000"`
	GenerationCount int     `json:"generationCount" validate:"omitempty,min=10,max=1000"`
	ElitismCount    int     `json:"elitismCount" validate:"omitempty,min=1,max=50"`
	CrossoverRate   float64 `json:"crossoverRate" validate:"omitempty,min=0,max=1"`
	MutationRate    float64 `json:"mutationRate" validate:"omitempty,min=0,max=1"`
	TournamentSize  int     `json:"tournamentSize" validate:"omitempty,min=2,max=50"`

	HardConstraints HardConstraintFlags `json:"hardConstraints"`
	SoftConstraints SoftConstraintFlags `json:"softConstraints"`
}

// Merge overlays non-zero fields of override onto a copy of defaults.
func (p GAParams) Merge(override GAParams) GAParams {
	merged := p
	if override.PopulationSize > 0 {
		merged.PopulationSize = override.PopulationSize
	}
	if override.GenerationCount > 0 {
		merged.GenerationCount = override.GenerationCount
	}
	if override.ElitismCount > 0 {
		merged.ElitismCount = override.ElitismCount
	}
	if override.CrossoverRate > 0 {
		merged.CrossoverRate = override.CrossoverRate
	}
	if override.MutationRate > 0 {
		merged.MutationRate = override.MutationRate
	}
	if override.TournamentSize > 0 {
		merged.TournamentSize = override.TournamentSize
	}
	if override.HardConstraints != (HardConstraintFlags{}) {
		merged.HardConstraints = override.HardConstraints
	}
	if override.SoftConstraints != (SoftConstraintFlags{}) {
		merged.SoftConstraints = override.SoftConstraints
	}
	return merged
}

// DefaultGAParams returns the scheduler's baseline tuning: every constraint
// flag enabled, population and generation counts sized for a single school's
// weekly timetable.
func DefaultGAParams() GAParams {
	return GAParams{
		PopulationSize:  100,
		GenerationCount: 100,
		ElitismCount:    5,
		CrossoverRate:   0.8,
		MutationRate:    0.2,
		TournamentSize:  5,
		HardConstraints: HardConstraintFlags{TeacherConflict: true, ClassConflict: true, RoomTypeMatch: true},
		SoftConstraints: SoftConstraintFlags{TeacherPreference: true, WorkloadDistribution: true},
	}
}
