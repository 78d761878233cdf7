// Package scheduling implements the genetic timetable scheduler: resource
// loading, demand expansion, candidate precomputation, chromosome
// representation, and the generation loop.
package scheduling

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

// ResourcePool is an immutable snapshot of every domain entity the GA needs
// for one academic year. It is loaded once per generation run and never
// mutated concurrently with the run.
type ResourcePool struct {
	AcademicYear string

	Classes   []models.Class
	Teachers  []models.Teacher
	Subjects  []models.Subject
	Rooms     []models.Room
	TimeSlots []models.TimeSlot
	Curricula []models.Curriculum

	TeacherSubjects     []models.TeacherSubject
	TeacherAvailability []models.TeacherAvailability
	RoomDepartments     []models.RoomDepartment
}

type classReader interface {
	ListForYear(ctx context.Context, academicYear string) ([]models.Class, error)
}

type teacherReader interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
	ListSubjects(ctx context.Context, teacherID int64, academicYear string) ([]models.TeacherSubject, error)
	ListAvailability(ctx context.Context, teacherID int64) ([]models.TeacherAvailability, error)
}

type subjectReader interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type roomReader interface {
	ListAll(ctx context.Context) ([]models.Room, error)
	ListDepartments(ctx context.Context, roomID int64) ([]models.RoomDepartment, error)
}

type timeSlotReader interface {
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
}

type curriculumReader interface {
	ListForYear(ctx context.Context, academicYear string) ([]models.Curriculum, error)
}

// LoadResourcePool collects a consistent snapshot of every entity needed to
// run a generation for academicYear. It fails with InsufficientResources
// when the snapshot cannot support any schedule at all: no classes, no time
// slots, no rooms, or a required subject with no qualified teacher.
func LoadResourcePool(
	ctx context.Context,
	academicYear string,
	classes classReader,
	teachers teacherReader,
	subjects subjectReader,
	rooms roomReader,
	timeSlots timeSlotReader,
	curricula curriculumReader,
	logger *zap.Logger,
) (*ResourcePool, error) {
	classRows, err := classes.ListForYear(ctx, academicYear)
	if err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}
	if len(classRows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInsufficientResources, "no classes for academic year "+academicYear)
	}

	teacherRows, err := teachers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teachers: %w", err)
	}

	subjectRows, err := subjects.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}

	roomRows, err := rooms.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	if len(roomRows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInsufficientResources, "no rooms configured")
	}

	slotRows, err := timeSlots.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load time slots: %w", err)
	}
	if len(slotRows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInsufficientResources, "no time slots configured")
	}

	curriculumRows, err := curricula.ListForYear(ctx, academicYear)
	if err != nil {
		return nil, fmt.Errorf("load curriculum: %w", err)
	}

	var teacherSubjects []models.TeacherSubject
	var teacherAvailability []models.TeacherAvailability
	for _, t := range teacherRows {
		ts, err := teachers.ListSubjects(ctx, t.ID, academicYear)
		if err != nil {
			return nil, fmt.Errorf("load qualifications for teacher %d: %w", t.ID, err)
		}
		teacherSubjects = append(teacherSubjects, ts...)

		avail, err := teachers.ListAvailability(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("load availability for teacher %d: %w", t.ID, err)
		}
		teacherAvailability = append(teacherAvailability, avail...)
	}

	var roomDepartments []models.RoomDepartment
	for _, rm := range roomRows {
		rd, err := rooms.ListDepartments(ctx, rm.ID)
		if err != nil {
			return nil, fmt.Errorf("load department restrictions for room %d: %w", rm.ID, err)
		}
		roomDepartments = append(roomDepartments, rd...)
	}

	qualifiedSubjects := make(map[int64]bool, len(teacherSubjects))
	for _, ts := range teacherSubjects {
		qualifiedSubjects[ts.SubjectID] = true
	}

	subjectsByID := make(map[int64]models.Subject, len(subjectRows))
	for _, s := range subjectRows {
		subjectsByID[s.ID] = s
	}

	roomTypes := make(map[string]bool, len(roomRows))
	for _, rm := range roomRows {
		roomTypes[rm.Type] = true
	}

	for _, c := range curriculumRows {
		if !qualifiedSubjects[c.SubjectID] {
			return nil, appErrors.Clone(appErrors.ErrInsufficientResources,
				fmt.Sprintf("no teacher qualified for subject %d", c.SubjectID))
		}

		subject, ok := subjectsByID[c.SubjectID]
		if !ok || subject.RequiredRoomType == nil || *subject.RequiredRoomType == "" {
			continue
		}
		if !roomTypes[*subject.RequiredRoomType] {
			return nil, appErrors.Clone(appErrors.ErrInsufficientResources,
				fmt.Sprintf("no room of type %q for subject %d", *subject.RequiredRoomType, c.SubjectID))
		}
	}

	logger.Debug("resource pool loaded",
		zap.String("academic_year", academicYear),
		zap.Int("classes", len(classRows)),
		zap.Int("teachers", len(teacherRows)),
		zap.Int("subjects", len(subjectRows)),
		zap.Int("rooms", len(roomRows)),
		zap.Int("time_slots", len(slotRows)),
		zap.Int("curriculum_rows", len(curriculumRows)),
	)

	return &ResourcePool{
		AcademicYear:        academicYear,
		Classes:             classRows,
		Teachers:            teacherRows,
		Subjects:            subjectRows,
		Rooms:               roomRows,
		TimeSlots:           slotRows,
		Curricula:           curriculumRows,
		TeacherSubjects:     teacherSubjects,
		TeacherAvailability: teacherAvailability,
		RoomDepartments:     roomDepartments,
	}, nil
}
