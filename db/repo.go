// Package db is the persistence layer: connection and migrations, the
// transactional lifecycle operations, the list/filter queries and the
// reporting aggregates.
package db

import (
	"context"
	"errors"
	"time"

	"it_inventory/apperr"
	"it_inventory/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tracerName = "it_inventory/db"

type Repo struct {
	DB *gorm.DB

	// Now is the clock used for "today" and completion timestamps.
	Now func() time.Time

	// OnTransition, when set, is called after a lifecycle operation commits.
	OnTransition func(entity, op string, n int)

	tracer trace.Tracer
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{
		DB:     db,
		Now:    func() time.Time { return time.Now().UTC() },
		tracer: otel.Tracer(tracerName),
	}
}

func (r *Repo) today() models.Date { return models.DateOf(r.Now()) }

func (r *Repo) committed(entity, op string, n int) {
	if r.OnTransition != nil && n > 0 {
		r.OnTransition(entity, op, n)
	}
}

// inTx runs fn in one transaction under a span named op.
func (r *Repo) inTx(ctx context.Context, op string, fn func(tx *gorm.DB) error, attrs ...attribute.KeyValue) error {
	ctx, span := r.tracer.Start(ctx, "lifecycle."+op, trace.WithAttributes(attrs...))
	defer span.End()

	err := r.DB.WithContext(ctx).Transaction(fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// forUpdate locks the selected rows. SQLite has no row locks; its writers are
// serialized by the database lock instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == DriverSQLite {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// notFound converts gorm's missing-row error into a typed rejection.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}

// conflict converts a unique-index violation into a typed rejection.
func conflict(err error, code, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(code, msg)
	}
	return err
}

func lockInventory(tx *gorm.DB, id string) (*models.Inventory, error) {
	var inv models.Inventory
	if err := forUpdate(tx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Inventory item not found")
	}
	return &inv, nil
}

func (r *Repo) FindInventoryByID(ctx context.Context, id string) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.DB.WithContext(ctx).Preload("AssignedUser").First(&inv, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Inventory item not found")
	}
	return &inv, nil
}
