// Package conflict detects collisions over a set of schedule details and
// proposes legal repair moves for them.
package conflict

import (
	"fmt"
	"sort"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// RoomTyper resolves the entities a detail references, so the detector
// never needs direct repository access; the orchestrator hands it an
// already-loaded snapshot.
type RoomTyper interface {
	SubjectRoomType(subjectID int64) (roomType string, ok bool)
	RoomType(roomID int64) (roomType string, ok bool)
}

// Detect indexes details by (teacherId, timeSlotId), (classId, timeSlotId),
// and (roomId, timeSlotId); every bucket holding more than one detail emits
// C(n,2) pairwise conflicts. Room-type mismatches are unary: one conflict
// per detail whose room type disagrees with its subject's required type.
// Pair ordering is always (lower detail id, higher detail id), so repeated
// detections over the same detail set produce an identical conflict list.
func Detect(details []models.ScheduleDetail, rt RoomTyper) []models.ScheduleConflict {
	var conflicts []models.ScheduleConflict

	conflicts = append(conflicts, pairwise(details, models.ConflictTeacher, func(d models.ScheduleDetail) (int64, int64) {
		return d.TeacherID, d.TimeSlotID
	})...)
	conflicts = append(conflicts, pairwise(details, models.ConflictClass, func(d models.ScheduleDetail) (int64, int64) {
		return d.ClassID, d.TimeSlotID
	})...)
	conflicts = append(conflicts, pairwise(details, models.ConflictRoom, func(d models.ScheduleDetail) (int64, int64) {
		return d.RoomID, d.TimeSlotID
	})...)

	for _, d := range details {
		required, ok := rt.SubjectRoomType(d.SubjectID)
		if !ok || required == "" {
			continue
		}
		actual, ok := rt.RoomType(d.RoomID)
		if !ok || actual == required {
			continue
		}
		conflicts = append(conflicts, models.ScheduleConflict{
			ScheduleID:  d.ScheduleID,
			DetailAID:   d.ID,
			DetailBID:   0,
			Dimension:   models.ConflictRoomType,
			Fingerprint: fingerprint(models.ConflictRoomType, d.ID, 0),
			Status:      models.ConflictStatusOpen,
			Description: "room type does not match the subject's required room type",
		})
	}

	return conflicts
}

// pairwise buckets details by the (resourceID, timeSlotID) key the keyFn
// extracts and emits one conflict per pair within any bucket of size > 1.
func pairwise(details []models.ScheduleDetail, dimension models.ConflictDimension, keyFn func(models.ScheduleDetail) (int64, int64)) []models.ScheduleConflict {
	type bucketKey struct {
		resourceID int64
		timeSlotID int64
	}
	buckets := make(map[bucketKey][]models.ScheduleDetail)
	for _, d := range details {
		resourceID, timeSlotID := keyFn(d)
		if resourceID == 0 {
			continue
		}
		key := bucketKey{resourceID, timeSlotID}
		buckets[key] = append(buckets[key], d)
	}

	var conflicts []models.ScheduleConflict
	for _, bucket := range buckets {
		if len(bucket) < 2 {
			continue
		}
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].ID < bucket[j].ID })
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				conflicts = append(conflicts, models.ScheduleConflict{
					ScheduleID:  bucket[i].ScheduleID,
					DetailAID:   bucket[i].ID,
					DetailBID:   bucket[j].ID,
					Dimension:   dimension,
					Fingerprint: fingerprint(dimension, bucket[i].ID, bucket[j].ID),
					Status:      models.ConflictStatusOpen,
					Description: conflictDescription(dimension),
				})
			}
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].DetailAID != conflicts[j].DetailAID {
			return conflicts[i].DetailAID < conflicts[j].DetailAID
		}
		return conflicts[i].DetailBID < conflicts[j].DetailBID
	})
	return conflicts
}

// fingerprint derives a stable identity for a conflict from its dimension
// and the sorted pair of detail ids it spans (detailBID is 0 for unary
// conflicts), so repeated detections over an unchanged detail set always
// produce the same key.
func fingerprint(dimension models.ConflictDimension, detailAID, detailBID int64) string {
	if detailAID > detailBID {
		detailAID, detailBID = detailBID, detailAID
	}
	return fmt.Sprintf("%s:%d:%d", dimension, detailAID, detailBID)
}

func conflictDescription(dimension models.ConflictDimension) string {
	switch dimension {
	case models.ConflictTeacher:
		return "teacher is double-booked in this time slot"
	case models.ConflictClass:
		return "class is double-booked in this time slot"
	case models.ConflictRoom:
		return "room is double-booked in this time slot"
	default:
		return "conflict detected"
	}
}
