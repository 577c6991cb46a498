package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/lifecycle"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/ref"
)

// RequestFilter narrows ListRequests. Zero values mean "no filter".
type RequestFilter struct {
	Status      string
	RequestType string
	EquipmentID string
	TeamID      string
	AssignedTo  string
	Reference   string
	Search      string
}

// CreateRequestInput carries the fields a caller may set on creation.
// Status is always "new"; reference and category are filled by the store.
type CreateRequestInput struct {
	Subject           string
	Description       string
	RequestType       string
	Priority          string
	EquipmentID       *string
	MaintenanceTeamID *string
	AssignedTo        *string
	ScheduledDate     *time.Time
	Notes             string
	Instructions      string
	CreatedBy         string
}

// UpdateRequestInput carries partial updates. Nil fields are left untouched.
// Status cannot be changed here; that goes through Transition.
type UpdateRequestInput struct {
	Subject           *string
	Description       *string
	Priority          *string
	EquipmentID       *string
	MaintenanceTeamID *string
	AssignedTo        *string
	ScheduledDate     *time.Time
	Notes             *string
	Instructions      *string
}

// TransitionInput carries the extras of a status change. DurationHours is the
// duration-capture step for the repaired transition; nil means "derive from
// started_at if possible".
type TransitionInput struct {
	DurationHours *float64
	Comment       string
	ChangedBy     string
}

func (s *gormStore) ListRequests(ctx context.Context, f RequestFilter) ([]model.MaintenanceRequest, error) {
	q := s.db.WithContext(ctx).Model(&model.MaintenanceRequest{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RequestType != "" {
		q = q.Where("request_type = ?", f.RequestType)
	}
	if f.EquipmentID != "" {
		q = q.Where("equipment_id = ?", f.EquipmentID)
	}
	if f.TeamID != "" {
		q = q.Where("maintenance_team_id = ?", f.TeamID)
	}
	if f.AssignedTo != "" {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.Reference != "" {
		q = q.Where("reference = ?", f.Reference)
	}
	if f.Search != "" {
		q = q.Where("subject LIKE ?", "%"+f.Search+"%")
	}

	var requests []model.MaintenanceRequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *gormStore) GetRequest(ctx context.Context, id string) (*model.MaintenanceRequest, error) {
	var request model.MaintenanceRequest
	err := s.db.WithContext(ctx).
		Preload("Equipment").Preload("MaintenanceTeam").Preload("Technician").
		First(&request, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// CreateRequest inserts a new request in the "new" stage, auto-filling
// category, team and technician from the linked equipment, and logs the
// initial history entry in the same transaction.
func (s *gormStore) CreateRequest(ctx context.Context, in CreateRequestInput) (*model.MaintenanceRequest, error) {
	now := time.Now().UTC()
	request := &model.MaintenanceRequest{
		ID:                uuid.NewString(),
		Reference:         ref.Generate(now),
		Subject:           in.Subject,
		Description:       in.Description,
		RequestType:       in.RequestType,
		Status:            string(lifecycle.StatusNew),
		Priority:          in.Priority,
		EquipmentID:       in.EquipmentID,
		MaintenanceTeamID: in.MaintenanceTeamID,
		AssignedTo:        in.AssignedTo,
		ScheduledDate:     in.ScheduledDate,
		Notes:             in.Notes,
		Instructions:      in.Instructions,
		CreatedBy:         in.CreatedBy,
	}
	if request.Priority == "" {
		request.Priority = "medium"
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.EquipmentID != nil {
			var equipment model.Equipment
			if err := tx.First(&equipment, "id = ?", *in.EquipmentID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fmt.Errorf("equipment %s: %w", *in.EquipmentID, ErrNotFound)
				}
				return err
			}
			request.Category = equipment.Category
			if request.MaintenanceTeamID == nil && equipment.MaintenanceTeamID != nil {
				request.MaintenanceTeamID = equipment.MaintenanceTeamID
			}
			if request.AssignedTo == nil && equipment.DefaultTechnicianID != nil {
				request.AssignedTo = equipment.DefaultTechnicianID
			}
		}

		if err := tx.Create(request).Error; err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		history := model.RequestHistory{
			ID:        uuid.NewString(),
			RequestID: request.ID,
			ToStage:   string(lifecycle.StatusNew),
			ChangedBy: in.CreatedBy,
			Comment:   "Request created",
			ChangedAt: now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *gormStore) UpdateRequest(ctx context.Context, id string, in UpdateRequestInput) (*model.MaintenanceRequest, error) {
	var request model.MaintenanceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		if in.Subject != nil {
			request.Subject = *in.Subject
		}
		if in.Description != nil {
			request.Description = *in.Description
		}
		if in.Priority != nil {
			request.Priority = *in.Priority
		}
		if in.EquipmentID != nil {
			request.EquipmentID = in.EquipmentID
		}
		if in.MaintenanceTeamID != nil {
			request.MaintenanceTeamID = in.MaintenanceTeamID
		}
		if in.AssignedTo != nil {
			request.AssignedTo = in.AssignedTo
		}
		if in.ScheduledDate != nil {
			request.ScheduledDate = in.ScheduledDate
		}
		if in.Notes != nil {
			request.Notes = *in.Notes
		}
		if in.Instructions != nil {
			request.Instructions = *in.Instructions
		}

		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *gormStore) DeleteRequest(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.MaintenanceRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Transition validates and applies a status change with its side effects:
// started_at on entering in_progress, completed_at and duration on entering
// repaired, equipment scrapping on entering scrap. Everything, including the
// history entry, commits in one transaction; a rejected transition changes
// nothing.
func (s *gormStore) Transition(ctx context.Context, id string, target lifecycle.Status, in TransitionInput) (*model.MaintenanceRequest, error) {
	var request model.MaintenanceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		from := lifecycle.Status(request.Status)
		if from == target {
			return nil // no-op write
		}
		if !lifecycle.CanTransition(from, target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
		}

		now := time.Now().UTC()
		switch target {
		case lifecycle.StatusInProgress:
			if request.StartedAt == nil {
				request.StartedAt = &now
			}
		case lifecycle.StatusRepaired:
			request.CompletedAt = &now
			if in.DurationHours != nil {
				request.DurationHours = *in.DurationHours
			} else if request.StartedAt != nil {
				hours := now.Sub(*request.StartedAt).Hours()
				request.DurationHours = math.Round(hours*100) / 100
			}
		case lifecycle.StatusScrap:
			if err := scrapEquipment(tx, &request, in.ChangedBy, now); err != nil {
				return err
			}
		}

		request.Status = string(target)
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to update request %s: %w", id, err)
		}

		history := model.RequestHistory{
			ID:               uuid.NewString(),
			RequestID:        request.ID,
			FromStage:        string(from),
			ToStage:          string(target),
			ChangedBy:        in.ChangedBy,
			Comment:          in.Comment,
			DurationAtChange: request.DurationHours,
			ChangedAt:        now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// scrapEquipment marks the linked equipment as scrapped and writes the scrap
// log entry. Requests without equipment scrap silently.
func scrapEquipment(tx *gorm.DB, request *model.MaintenanceRequest, changedBy string, now time.Time) error {
	if request.EquipmentID == nil {
		return nil
	}
	var equipment model.Equipment
	if err := tx.First(&equipment, "id = ?", *request.EquipmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil // reference went stale, nothing to scrap
		}
		return err
	}

	equipment.Status = "scrapped"
	if err := tx.Save(&equipment).Error; err != nil {
		return fmt.Errorf("failed to scrap equipment %s: %w", equipment.ID, err)
	}

	scrapLog := model.EquipmentScrapLog{
		ID:          uuid.NewString(),
		EquipmentID: equipment.ID,
		RequestID:   &request.ID,
		Reason:      fmt.Sprintf("Scrapped via maintenance request: %s", request.Subject),
		ScrappedAt:  now,
	}
	if changedBy != "" {
		scrapLog.ScrappedBy = &changedBy
	}
	return tx.Create(&scrapLog).Error
}

func (s *gormStore) RequestHistory(ctx context.Context, id string) ([]model.RequestHistory, error) {
	var history []model.RequestHistory
	err := s.db.WithContext(ctx).
		Where("request_id = ?", id).
		Order("changed_at DESC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// OverdueRequestIDs returns open requests whose scheduled date has passed,
// using the same date-only rule as the classifier.
func (s *gormStore) OverdueRequestIDs(ctx context.Context, now time.Time) ([]string, error) {
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var ids []string
	err := s.db.WithContext(ctx).Model(&model.MaintenanceRequest{}).
		Where("scheduled_date IS NOT NULL AND scheduled_date < ?", startOfToday).
		Where("status IN ?", []string{string(lifecycle.StatusNew), string(lifecycle.StatusInProgress)}).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue requests: %w", err)
	}
	return ids, nil
}
