package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/repository/file"
	"github.com/mamadbah2/stockroom/internal/repository/mongodb"
	"github.com/mamadbah2/stockroom/internal/store"
)

// ErrEmptyItemName indicates an add or remove without an item name.
var ErrEmptyItemName = errors.New("item name must not be empty")

// ErrInvalidQuantity indicates a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// ErrItemNotFound indicates a removal targeting an item that is not in stock.
var ErrItemNotFound = errors.New("item not found in stock")

// Service implements the stock operations: additions, removals, quantity
// lookups, low-stock detection and snapshot persistence.
type Service struct {
	store     *store.Store
	snapshots *file.Repository
	audit     mongodb.Repository
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires a new inventory service instance. audit may be nil when
// MongoDB is not configured.
func NewService(st *store.Store, snapshots *file.Repository, audit mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     st,
		snapshots: snapshots,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Add accumulates qty onto the item entry and returns the new quantity.
// An empty name or a non-positive quantity is rejected.
func (s *Service) Add(ctx context.Context, item string, qty int, sender string) (int, error) {
	if item == "" {
		s.logger.Warn("no item name provided, skipping add")
		return 0, ErrEmptyItemName
	}
	if qty <= 0 {
		s.logger.Warn("invalid quantity for add", zap.String("item", item), zap.Int("qty", qty))
		return 0, ErrInvalidQuantity
	}

	newQty := s.store.Add(item, qty)
	s.logger.Info("item added", zap.String("item", item), zap.Int("qty", qty), zap.Int("new_quantity", newQty))

	s.recordMovement(ctx, models.Movement{
		Verb:      models.MovementAdd,
		Item:      item,
		Quantity:  qty,
		Remaining: newQty,
		Sender:    sender,
	})

	return newQty, nil
}

// Remove decrements the item quantity and returns the remaining amount.
// When the quantity drops to 0 or below the item is deleted and 0 is
// returned. Removing an unknown item yields ErrItemNotFound.
func (s *Service) Remove(ctx context.Context, item string, qty int, sender string) (int, error) {
	if item == "" {
		s.logger.Warn("no item name provided, skipping remove")
		return 0, ErrEmptyItemName
	}
	if qty <= 0 {
		s.logger.Warn("invalid quantity for remove", zap.String("item", item), zap.Int("qty", qty))
		return 0, ErrInvalidQuantity
	}

	remaining, deleted, found := s.store.Remove(item, qty)
	if !found {
		s.logger.Warn("failed to remove item: not found in stock", zap.String("item", item))
		return 0, ErrItemNotFound
	}

	verb := models.MovementRemove
	if deleted {
		verb = models.MovementDelete
		s.logger.Info("removed item from stock, quantity dropped to zero", zap.String("item", item))
	} else {
		s.logger.Info("item removed", zap.String("item", item), zap.Int("qty", qty), zap.Int("remaining", remaining))
	}

	s.recordMovement(ctx, models.Movement{
		Verb:      verb,
		Item:      item,
		Quantity:  qty,
		Remaining: remaining,
		Sender:    sender,
	})

	return remaining, nil
}

// Quantity returns the current quantity of an item, 0 when absent.
func (s *Service) Quantity(item string) int {
	return s.store.Quantity(item)
}

// LowStock lists items with quantity at or below threshold.
func (s *Service) LowStock(threshold int) []string {
	return s.store.LowStock(threshold)
}

// Report builds a point-in-time view of all stocked items.
func (s *Service) Report() models.InventoryReport {
	items := s.store.Items()

	totalUnits := 0
	for _, item := range items {
		totalUnits += item.Quantity
	}

	return models.InventoryReport{
		GeneratedAt: s.now().UTC(),
		Items:       items,
		TotalItems:  len(items),
		TotalUnits:  totalUnits,
	}
}

// Movements returns up to limit of the most recent journal entries.
func (s *Service) Movements(limit int) []models.Movement {
	return s.store.Movements(limit)
}

// SaveSnapshot persists the current stock map to the snapshot file.
func (s *Service) SaveSnapshot() error {
	return s.snapshots.Save(s.store.Snapshot())
}

// recordMovement journals the mutation and mirrors it to the audit trail.
// Audit failures are logged, never surfaced: the mutation already happened.
func (s *Service) recordMovement(ctx context.Context, mv models.Movement) {
	mv.ID = s.newID()
	mv.At = s.now().UTC()

	s.store.Record(mv)

	if s.audit == nil {
		return
	}

	auditCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.audit.SaveMovement(auditCtx, mv); err != nil {
		s.logger.Warn("failed to persist movement to audit trail", zap.Error(err), zap.String("movement_id", mv.ID))
	}
}
