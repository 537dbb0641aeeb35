package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contextKey string

// TxKey carries a *gorm.DB transaction through a context for the ORM path.
var TxKey contextKey = "tx"

// Repository is the generic ORM-backed CRUD surface.
type Repository[T any] struct {
	DB *gorm.DB
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.getDb(ctx).Create(entity).Error
}

// Update writes every column of entity by primary key and reports the rows it touched.
// Associations are left alone and a missing row is not inserted.
func (r *Repository[T]) Update(ctx context.Context, entity *T) (int64, error) {
	res := r.getDb(ctx).Model(entity).Select("*").Omit(clause.Associations).Updates(entity)
	return res.RowsAffected, res.Error
}

func (r *Repository[T]) Delete(ctx context.Context, id any) (int64, error) {
	var entity T
	res := r.getDb(ctx).Where("id = ?", id).Delete(&entity)
	return res.RowsAffected, res.Error
}

func (r *Repository[T]) FindByID(ctx context.Context, id any) (Result[T], error) {
	var entity T
	err := r.getDb(ctx).Where("id = ?", id).Take(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound[T](), nil
	}
	if err != nil {
		return NotFound[T](), err
	}
	return Found(entity), nil
}

func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	var entities []T
	if err := r.getDb(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Transaction runs fn with a gorm transaction bound into ctx, so repository calls
// made with that ctx join it. fn's own error comes back unchanged; a failed BEGIN or
// COMMIT comes back as a transaction QueryError.
func (r *Repository[T]) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	var (
		ran   bool
		fnErr error
	)
	err := r.getDb(ctx).Transaction(func(tx *gorm.DB) error {
		ran = true
		fnErr = fn(context.WithValue(ctx, TxKey, tx))
		return fnErr
	})
	switch {
	case err == nil || fnErr != nil:
		return err
	case !ran:
		return newQueryError(IntentTransaction, "BEGIN", err)
	default:
		return newQueryError(IntentTransaction, "COMMIT", err)
	}
}

func (r *Repository[T]) getDb(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return r.DB.WithContext(ctx)
}
