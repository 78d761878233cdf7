package orchestrator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/noah-isme/sma-adp-api/pkg/storage"
)

// HistoryArchiver persists a completed run's fitness-history curve as a JSON
// file and returns a signed, time-limited URL for retrieving it later. It is
// optional: a nil *HistoryArchiver disables archival entirely.
type HistoryArchiver struct {
	files  *storage.LocalStorage
	signer *storage.SignedURLSigner
}

// NewHistoryArchiver wires a LocalStorage/SignedURLSigner pair into an archiver.
func NewHistoryArchiver(files *storage.LocalStorage, signer *storage.SignedURLSigner) *HistoryArchiver {
	return &HistoryArchiver{files: files, signer: signer}
}

type historyRecord struct {
	ScheduleID     int64     `json:"schedule_id"`
	BestFitness    float64   `json:"best_fitness"`
	GenerationsRun int       `json:"generations_run"`
	FitnessHistory []float64 `json:"fitness_history"`
	ArchivedAt     time.Time `json:"archived_at"`
}

// Archive writes the run's fitness history to storage and returns a signed
// URL token good for the archiver's configured TTL.
func (a *HistoryArchiver) Archive(scheduleID int64, bestFitness float64, generationsRun int, history []float64) (string, error) {
	record := historyRecord{
		ScheduleID:     scheduleID,
		BestFitness:    bestFitness,
		GenerationsRun: generationsRun,
		FitnessHistory: history,
		ArchivedAt:     time.Now().UTC(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal fitness history: %w", err)
	}

	relPath := fmt.Sprintf("schedule-%d/run-%d.json", scheduleID, record.ArchivedAt.UnixNano())
	savedPath, err := a.files.Save(relPath, data)
	if err != nil {
		return "", fmt.Errorf("save fitness history: %w", err)
	}

	token, _, err := a.signer.Generate(fmt.Sprintf("%d", scheduleID), savedPath)
	if err != nil {
		return "", fmt.Errorf("sign fitness history url: %w", err)
	}
	return token, nil
}
