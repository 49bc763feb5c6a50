// Package repository provides the gorm-backed persistence layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/maxari-shop/service-returns/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ReturnRepository persists return records.
type ReturnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new ReturnRepository.
func NewReturnRepository(db *gorm.DB) *ReturnRepository {
	return &ReturnRepository{db: db}
}

// Create inserts a new return record.
func (r *ReturnRepository) Create(ctx context.Context, ret *models.Return) error {
	if err := r.db.WithContext(ctx).Create(ret).Error; err != nil {
		return fmt.Errorf("failed to create return: %w", err)
	}
	return nil
}

// FindByID fetches a return by its RET id.
func (r *ReturnRepository) FindByID(ctx context.Context, returnID string) (*models.Return, error) {
	var ret models.Return
	err := r.db.WithContext(ctx).First(&ret, "id_retur = ?", returnID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find return: %w", err)
	}
	return &ret, nil
}

// List returns all returns, newest first.
func (r *ReturnRepository) List(ctx context.Context) ([]models.Return, error) {
	var returns []models.Return
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&returns).Error; err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}
	return returns, nil
}

// Update saves the full record.
func (r *ReturnRepository) Update(ctx context.Context, ret *models.Return) error {
	if err := r.db.WithContext(ctx).Save(ret).Error; err != nil {
		return fmt.Errorf("failed to update return: %w", err)
	}
	return nil
}

// UpdateStatus sets the status field only.
func (r *ReturnRepository) UpdateStatus(ctx context.Context, returnID string, status models.ReturnStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Return{}).
		Where("id_retur = ?", returnID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update return status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a return record.
func (r *ReturnRepository) Delete(ctx context.Context, returnID string) error {
	result := r.db.WithContext(ctx).Delete(&models.Return{}, "id_retur = ?", returnID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete return: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NextReturnID generates the next sequential id of the form
// RET-{year}-{6-digit sequence}, with the sequence restarting each year.
func (r *ReturnRepository) NextReturnID(ctx context.Context, now time.Time) (string, error) {
	year := now.Year()
	prefix := fmt.Sprintf("RET-%d-", year)

	var lastID string
	err := r.db.WithContext(ctx).
		Model(&models.Return{}).
		Select("id_retur").
		Where("id_retur LIKE ?", prefix+"%").
		Order("id_retur DESC").
		Limit(1).
		Scan(&lastID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to read last return id: %w", err)
	}

	next := 1
	if lastID != "" {
		if seq, err := strconv.Atoi(strings.TrimPrefix(lastID, prefix)); err == nil {
			next = seq + 1
		}
	}

	return fmt.Sprintf("%s%06d", prefix, next), nil
}
