package scheduling

import (
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// Demand is one gene site: one required weekly hour of subjectId for
// classId. A curriculum row with hoursPerWeek N expands into N Demand
// entries, all sharing the same (classId, subjectId) pair.
type Demand struct {
	ClassID   int64
	SubjectID int64
}

// ExpandDemand derives the flat gene-site list the chromosome is built
// over: for every class, look up curriculum by (department, grade,
// academic year) and emit one Demand per required weekly hour. Curriculum
// rows matching no class are logged and skipped rather than failing the
// run — they describe a requirement the current class roster doesn't need.
func ExpandDemand(pool *ResourcePool, logger *zap.Logger) []Demand {
	type curriculumKey struct {
		departmentID int64
		gradeLevel   int
	}
	byKey := make(map[curriculumKey][]models.Curriculum, len(pool.Curricula))
	for _, c := range pool.Curricula {
		key := curriculumKey{departmentID: c.DepartmentID, gradeLevel: c.GradeLevel}
		byKey[key] = append(byKey[key], c)
	}

	subjectsByID := make(map[int64]models.Subject, len(pool.Subjects))
	for _, s := range pool.Subjects {
		subjectsByID[s.ID] = s
	}

	matched := make(map[int64]bool, len(pool.Curricula))
	var demand []Demand
	for _, class := range pool.Classes {
		key := curriculumKey{departmentID: class.DepartmentID, gradeLevel: class.GradeLevel}
		rows, ok := byKey[key]
		if !ok {
			logger.Warn("class has no matching curriculum",
				zap.Int64("class_id", class.ID),
				zap.Int64("department_id", class.DepartmentID),
				zap.Int("grade_level", class.GradeLevel),
			)
			continue
		}
		for _, row := range rows {
			// A departmental subject (DepartmentID set) is only taught within
			// its own department; a curriculum row pairing it with another
			// department is a data error, not a schedulable requirement.
			if subject, ok := subjectsByID[row.SubjectID]; ok && subject.DepartmentID != nil && *subject.DepartmentID != row.DepartmentID {
				logger.Warn("curriculum assigns a departmental subject outside its department, skipped",
					zap.Int64("curriculum_id", row.ID),
					zap.Int64("subject_id", row.SubjectID),
					zap.Int64("subject_department_id", *subject.DepartmentID),
					zap.Int64("curriculum_department_id", row.DepartmentID),
				)
				continue
			}
			matched[row.ID] = true
			for i := 0; i < row.WeeklyHours; i++ {
				demand = append(demand, Demand{ClassID: class.ID, SubjectID: row.SubjectID})
			}
		}
	}

	for _, row := range pool.Curricula {
		if !matched[row.ID] {
			logger.Warn("curriculum row matches no class, skipped",
				zap.Int64("curriculum_id", row.ID),
				zap.Int64("department_id", row.DepartmentID),
				zap.Int("grade_level", row.GradeLevel),
			)
		}
	}

	return demand
}
