package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/lifecycle"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/snapshot"
)

// Store defines the database operations the API and the reminder service
// depend on. Simple collection reads go through DB() directly; anything with
// workflow rules or multi-table side effects lives behind a method.
type Store interface {
	DB() *gorm.DB

	LoadSnapshot(ctx context.Context) (*snapshot.Snapshot, error)

	ListRequests(ctx context.Context, f RequestFilter) ([]model.MaintenanceRequest, error)
	GetRequest(ctx context.Context, id string) (*model.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, in CreateRequestInput) (*model.MaintenanceRequest, error)
	UpdateRequest(ctx context.Context, id string, in UpdateRequestInput) (*model.MaintenanceRequest, error)
	DeleteRequest(ctx context.Context, id string) error
	Transition(ctx context.Context, id string, target lifecycle.Status, in TransitionInput) (*model.MaintenanceRequest, error)
	RequestHistory(ctx context.Context, id string) ([]model.RequestHistory, error)
	OverdueRequestIDs(ctx context.Context, now time.Time) ([]string, error)

	DeleteEquipment(ctx context.Context, id string) error
	DeleteTeam(ctx context.Context, id string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// LoadSnapshot fetches all four collections in one pass. Any failure aborts
// the whole load so callers never see a partially refreshed snapshot.
func (s *gormStore) LoadSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	snap := &snapshot.Snapshot{LoadedAt: time.Now().UTC()}

	db := s.db.WithContext(ctx)
	if err := db.Order("created_at ASC").Find(&snap.Requests).Error; err != nil {
		return nil, fmt.Errorf("failed to load requests: %w", err)
	}
	if err := db.Order("name ASC").Find(&snap.Equipment).Error; err != nil {
		return nil, fmt.Errorf("failed to load equipment: %w", err)
	}
	if err := db.Order("name ASC").Find(&snap.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if err := db.Order("name ASC").Find(&snap.Teams).Error; err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	return snap, nil
}

// DeleteEquipment removes an equipment record. References from requests are
// weak, so they are cleared rather than cascading the delete.
func (s *gormStore) DeleteEquipment(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var equipment model.Equipment
		if err := tx.First(&equipment, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&model.MaintenanceRequest{}).
			Where("equipment_id = ?", id).
			Update("equipment_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach requests from equipment %s: %w", id, err)
		}
		return tx.Delete(&equipment).Error
	})
}

// DeleteTeam removes a team together with its memberships. Requests and
// equipment keep existing with the team reference cleared.
func (s *gormStore) DeleteTeam(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team model.Team
		if err := tx.First(&team, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&model.TeamMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete members of team %s: %w", id, err)
		}
		if err := tx.Model(&model.MaintenanceRequest{}).
			Where("maintenance_team_id = ?", id).
			Update("maintenance_team_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Equipment{}).
			Where("maintenance_team_id = ?", id).
			Update("maintenance_team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
}
