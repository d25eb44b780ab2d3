package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"rose-booking/internal/apperr"
	"rose-booking/internal/database"
	"rose-booking/internal/models"
)

// Store looks clients up by phone. Calls join the transaction carried by ctx.
type Store struct {
	Bun *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{Bun: db}
}

func (s *Store) GetByPhone(ctx context.Context, phone string) (*models.Client, error) {
	var client models.Client
	err := database.Conn(ctx, s.Bun).NewSelect().
		Model(&client).
		Where("phone = ?", phone).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "client not found")
	}
	return &client, nil
}

// Upsert returns the client registered with phone, creating it when missing.
// An existing client's name is never overwritten.
func (s *Store) Upsert(ctx context.Context, fullName, phone string) (*models.Client, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperr.Validation("phone is required")
	}

	client, err := s.GetByPhone(ctx, phone)
	if err == nil {
		return client, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}

	client = &models.Client{
		FullName:  strings.TrimSpace(fullName),
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	if _, err := database.Conn(ctx, s.Bun).NewInsert().Model(client).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := database.Conn(ctx, s.Bun).NewSelect().
		Model(&client).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("client not found")
	}
	return &client, err
}
