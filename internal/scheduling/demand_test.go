package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

func TestExpandDemandExpandsWeeklyHoursPerMatchingClass(t *testing.T) {
	pool := &ResourcePool{
		Classes: []models.Class{{ID: 1, DepartmentID: 1, GradeLevel: 10}},
		Subjects: []models.Subject{
			{ID: 1, Name: "Math"},
		},
		Curricula: []models.Curriculum{
			{ID: 1, DepartmentID: 1, GradeLevel: 10, SubjectID: 1, WeeklyHours: 4},
		},
	}

	demand := ExpandDemand(pool, zap.NewNop())
	assert.Len(t, demand, 4)
	for _, d := range demand {
		assert.Equal(t, int64(1), d.ClassID)
		assert.Equal(t, int64(1), d.SubjectID)
	}
}

func TestExpandDemandSkipsClassWithNoMatchingCurriculum(t *testing.T) {
	pool := &ResourcePool{
		Classes: []models.Class{{ID: 1, DepartmentID: 1, GradeLevel: 11}},
		Curricula: []models.Curriculum{
			{ID: 1, DepartmentID: 1, GradeLevel: 10, SubjectID: 1, WeeklyHours: 4},
		},
	}

	demand := ExpandDemand(pool, zap.NewNop())
	assert.Empty(t, demand)
}

func TestExpandDemandSkipsDepartmentalSubjectOutsideItsDepartment(t *testing.T) {
	pool := &ResourcePool{
		Classes: []models.Class{{ID: 1, DepartmentID: 2, GradeLevel: 10}},
		Subjects: []models.Subject{
			{ID: 1, Name: "Vocational Welding", DepartmentID: int64Ptr(1)},
		},
		Curricula: []models.Curriculum{
			// Curriculum row wrongly pairs a department-1-only subject with
			// department 2's class roster.
			{ID: 1, DepartmentID: 2, GradeLevel: 10, SubjectID: 1, WeeklyHours: 4},
		},
	}

	demand := ExpandDemand(pool, zap.NewNop())
	assert.Empty(t, demand, "a departmental subject assigned outside its department yields no demand")
}

func TestExpandDemandAllowsGenericSubjectAcrossDepartments(t *testing.T) {
	pool := &ResourcePool{
		Classes: []models.Class{
			{ID: 1, DepartmentID: 1, GradeLevel: 10},
			{ID: 2, DepartmentID: 2, GradeLevel: 10},
		},
		Subjects: []models.Subject{
			{ID: 1, Name: "Civics"}, // DepartmentID nil: generic, open to any department
		},
		Curricula: []models.Curriculum{
			{ID: 1, DepartmentID: 1, GradeLevel: 10, SubjectID: 1, WeeklyHours: 2},
			{ID: 2, DepartmentID: 2, GradeLevel: 10, SubjectID: 1, WeeklyHours: 2},
		},
	}

	demand := ExpandDemand(pool, zap.NewNop())
	assert.Len(t, demand, 4)
}
