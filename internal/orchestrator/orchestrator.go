// Package orchestrator glues the generation pipeline together: resource
// loading, demand expansion, the genetic scheduler, the bulk persistence
// write, and the final progress-broker event, run detached from the
// request that triggered it.
package orchestrator

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/broker"
	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/scheduling"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

// State names a run's position in its lifecycle.
type State string

const (
	StateIdle      State = "IDLE"
	StateLoading   State = "LOADING"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateCancelled State = "CANCELLED"
	StateFailed    State = "FAILED"
)

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

type scheduleWriter interface {
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
	UpdateStatus(ctx context.Context, id int64, status models.ScheduleStatus) error
	RecordRunResult(ctx context.Context, id int64, bestFitness float64, generations int, status models.ScheduleStatus) error
}

type detailWriter interface {
	ReplaceAll(ctx context.Context, scheduleID int64, details []models.ScheduleDetail) error
}

type run struct {
	state  State
	cancel context.CancelFunc
}

// Orchestrator owns one generation run per scheduleId and publishes its
// progress and terminal outcome through a Broker.
type Orchestrator struct {
	classes   classReader
	teachers  teacherReader
	subjects  subjectReader
	rooms     roomReader
	timeSlots timeSlotReader
	curricula curriculumReader
	schedules scheduleWriter
	details   detailWriter
	progress  *broker.Broker
	history   *HistoryArchiver
	logger    *zap.Logger

	mu   sync.Mutex
	runs map[int64]*run
}

// New constructs an Orchestrator wired to its collaborators. history may be
// nil, in which case completed runs publish no ArchiveURL.
func New(
	classes classReader,
	teachers teacherReader,
	subjects subjectReader,
	rooms roomReader,
	timeSlots timeSlotReader,
	curricula curriculumReader,
	schedules scheduleWriter,
	details detailWriter,
	progress *broker.Broker,
	history *HistoryArchiver,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		classes: classes, teachers: teachers, subjects: subjects, rooms: rooms,
		timeSlots: timeSlots, curricula: curricula, schedules: schedules, details: details,
		progress: progress, history: history, logger: logger, runs: make(map[int64]*run),
	}
}

// Start begins a generation run for scheduleId in a detached goroutine.
// Only one run may be Loading or Running per scheduleId at a time; a second
// call while one is active returns AlreadyRunning.
func (o *Orchestrator) Start(scheduleID int64, academicYear string, params models.GAParams) error {
	o.mu.Lock()
	if existing, ok := o.runs[scheduleID]; ok && (existing.state == StateLoading || existing.state == StateRunning) {
		o.mu.Unlock()
		return appErrors.Clone(appErrors.ErrAlreadyRunning, "a generation run is already in progress for this schedule")
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.runs[scheduleID] = &run{state: StateLoading, cancel: cancel}
	o.mu.Unlock()

	go o.execute(ctx, scheduleID, academicYear, params)
	return nil
}

// Cancel requests termination of an active run. The GA loop observes the
// cancellation between generations, never mid-generation.
func (o *Orchestrator) Cancel(scheduleID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if r, ok := o.runs[scheduleID]; ok {
		r.cancel()
	}
}

// StateOf returns the current lifecycle state for scheduleId, or StateIdle
// if no run has ever been started for it.
func (o *Orchestrator) StateOf(scheduleID int64) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if r, ok := o.runs[scheduleID]; ok {
		return r.state
	}
	return StateIdle
}

func (o *Orchestrator) setState(scheduleID int64, state State) {
	o.mu.Lock()
	if r, ok := o.runs[scheduleID]; ok {
		r.state = state
	}
	o.mu.Unlock()
}

func (o *Orchestrator) execute(ctx context.Context, scheduleID int64, academicYear string, params models.GAParams) {
	pool, err := scheduling.LoadResourcePool(ctx, academicYear, o.classes, o.teachers, o.subjects, o.rooms, o.timeSlots, o.curricula, o.logger)
	if err != nil {
		o.fail(scheduleID, err)
		return
	}

	demand := scheduling.ExpandDemand(pool, o.logger)
	candidates := scheduling.BuildCandidateSets(pool)

	o.setState(scheduleID, StateRunning)
	if err := o.schedules.UpdateStatus(ctx, scheduleID, models.ScheduleStatusRunning); err != nil {
		o.fail(scheduleID, err)
		return
	}

	result := scheduling.Run(ctx, demand, candidates, params, func(generation, total int, bestFitness float64, history []float64) {
		o.progress.PublishProgress(broker.Progress{
			ScheduleID:        scheduleID,
			CurrentGeneration: generation,
			TotalGenerations:  total,
			BestFitness:       bestFitness,
			FitnessHistory:    append([]float64(nil), history...),
		})
	})

	if result.Cancelled {
		o.setState(scheduleID, StateCancelled)
		if err := o.schedules.RecordRunResult(ctx, scheduleID, result.BestFitness, result.GenerationsRun, models.ScheduleStatusDraft); err != nil {
			o.logger.Warn("failed to record cancelled run result", zap.Int64("schedule_id", scheduleID), zap.Error(err))
		}
		o.progress.PublishFailed(broker.Failed{ScheduleID: scheduleID, Reason: "cancelled"})
		return
	}

	details := make([]models.ScheduleDetail, len(result.Best))
	for i, gene := range result.Best {
		details[i] = models.ScheduleDetail{
			ScheduleID: scheduleID,
			ClassID:    result.Demand[i].ClassID,
			SubjectID:  result.Demand[i].SubjectID,
			TeacherID:  gene.TeacherID,
			RoomID:     gene.RoomID,
			TimeSlotID: gene.TimeSlotID,
		}
	}

	if err := o.details.ReplaceAll(ctx, scheduleID, details); err != nil {
		o.fail(scheduleID, err)
		return
	}
	if err := o.schedules.RecordRunResult(ctx, scheduleID, result.BestFitness, result.GenerationsRun, models.ScheduleStatusCompleted); err != nil {
		o.fail(scheduleID, err)
		return
	}

	var archiveURL string
	if o.history != nil {
		token, err := o.history.Archive(scheduleID, result.BestFitness, result.GenerationsRun, result.FitnessHistory)
		if err != nil {
			o.logger.Warn("failed to archive fitness history", zap.Int64("schedule_id", scheduleID), zap.Error(err))
		} else {
			archiveURL = token
		}
	}

	o.setState(scheduleID, StateCompleted)
	o.progress.PublishComplete(broker.Complete{ScheduleID: scheduleID, FitnessScore: result.BestFitness, DetailCount: len(details), ArchiveURL: archiveURL})
}

func (o *Orchestrator) fail(scheduleID int64, err error) {
	o.setState(scheduleID, StateFailed)
	o.logger.Error("generation run failed", zap.Int64("schedule_id", scheduleID), zap.Error(err))
	_ = o.schedules.UpdateStatus(context.Background(), scheduleID, models.ScheduleStatusFailed)
	o.progress.PublishFailed(broker.Failed{ScheduleID: scheduleID, Reason: err.Error()})
}
