package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jerseystand/event-sales/internal/core/domain"
	"github.com/jerseystand/event-sales/internal/port"
)

var (
	ErrEventNotStarted = errors.New("event not started")
	ErrInvalidPayment  = errors.New("invalid payment method")
)

// EventService coordinates sale and undo as atomic operations over the
// inventory store and the sales ledger, and persists both through the state
// repository. A sale is durably recorded before the caller sees the
// decremented inventory; if the write fails the in-memory mutation is
// reverted, so no partial state is ever observable.
type EventService struct {
	store   port.StateRepository
	logger  *zap.Logger
	catalog domain.Catalog

	mu        sync.Mutex
	phase     domain.Phase
	info      domain.EventInfo
	inventory *domain.InventoryStore
	initial   []domain.InventoryItem
	ledger    *domain.SalesLedger
}

// persistedEvent is the eventInfo value on disk. Phase rides along so a
// process restart lands the operator on the same screen.
type persistedEvent struct {
	domain.EventInfo
	Phase domain.Phase `json:"phase"`
}

func NewEventService(store port.StateRepository, logger *zap.Logger) *EventService {
	catalog := domain.DefaultCatalog()
	return &EventService{
		store:     store,
		logger:    logger,
		catalog:   catalog,
		phase:     domain.PhaseSetup,
		inventory: domain.NewInventoryStore(catalog, nil),
		ledger:    domain.NewSalesLedger(nil),
	}
}

// Restore reloads persisted state from a previous run. Malformed or missing
// state is not fatal: the service logs a warning and starts at setup with
// the default catalog.
func (s *EventService) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ev persistedEvent
	found, err := s.loadJSON(ctx, port.KeyEventInfo, &ev)
	if err != nil {
		s.logger.Warn("discarding persisted event info", zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}

	var current, initial []domain.InventoryItem
	var sales []domain.SaleRecord
	if _, err := s.loadJSON(ctx, port.KeyInventory, &current); err != nil {
		s.logger.Warn("discarding persisted state", zap.Error(err))
		return nil
	}
	if _, err := s.loadJSON(ctx, port.KeyInitialInventory, &initial); err != nil {
		s.logger.Warn("discarding persisted state", zap.Error(err))
		return nil
	}
	if _, err := s.loadJSON(ctx, port.KeySales, &sales); err != nil {
		s.logger.Warn("discarding persisted state", zap.Error(err))
		return nil
	}

	s.info = ev.EventInfo
	s.phase = ev.Phase
	if s.phase == "" {
		s.phase = domain.PhaseSetup
	}
	if current != nil {
		s.inventory = domain.RestoreInventory(current)
	}
	s.initial = initial
	s.ledger = domain.NewSalesLedger(sales)

	s.logger.Info("restored event state",
		zap.String("event", s.info.Name),
		zap.String("phase", string(s.phase)),
		zap.Int("sales", s.ledger.Len()))
	return nil
}

// StartEvent initializes inventory from operator-supplied counts and opens
// the selling phase. Any prior event state is replaced.
func (s *EventService) StartEvent(ctx context.Context, info domain.EventInfo, counts map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info.StartTime.IsZero() {
		info.StartTime = time.Now().UTC()
	}
	if info.Date == "" {
		info.Date = info.StartTime.Format("2006-01-02")
	}

	inventory := domain.NewInventoryStore(s.catalog, counts)
	initial := inventory.Snapshot()
	ledger := domain.NewSalesLedger(nil)

	if err := s.persist(ctx,
		kv{port.KeyInventory, inventory.Snapshot()},
		kv{port.KeyInitialInventory, initial},
		kv{port.KeySales, ledger.Records()},
		kv{port.KeyEventInfo, persistedEvent{EventInfo: info, Phase: domain.PhaseSelling}},
	); err != nil {
		return fmt.Errorf("start event: %w", err)
	}

	s.info = info
	s.phase = domain.PhaseSelling
	s.inventory = inventory
	s.initial = initial
	s.ledger = ledger

	s.logger.Info("event started", zap.String("event", info.Name), zap.String("date", info.Date))
	return nil
}

// RecordSale sells one unit of the item: defensive stock check, price
// computation, ledger append, persist. On any failure no state changes.
func (s *EventService) RecordSale(ctx context.Context, itemID string, method domain.PaymentMethod, discount domain.DiscountSpec) (domain.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseSelling {
		return domain.SaleRecord{}, ErrEventNotStarted
	}
	if !method.Valid() {
		return domain.SaleRecord{}, ErrInvalidPayment
	}

	item, ok := s.catalog.Find(itemID)
	if !ok {
		return domain.SaleRecord{}, domain.ErrUnknownItem
	}

	// The UI should not offer zero-stock items, but re-check here.
	if err := s.inventory.Decrement(itemID); err != nil {
		return domain.SaleRecord{}, err
	}

	record := domain.SaleRecord{
		ID:              uuid.NewString(),
		Timestamp:       time.Now().UTC(),
		ItemID:          item.ID,
		Design:          item.Design,
		Size:            item.Size,
		Category:        item.Category,
		UnitPriceAtSale: item.UnitPrice,
		Discount:        discount,
		FinalPrice:      domain.FinalPrice(item.UnitPrice, discount),
		PaymentMethod:   method,
	}
	s.ledger.Append(record)

	if err := s.persist(ctx,
		kv{port.KeyInventory, s.inventory.Snapshot()},
		kv{port.KeySales, s.ledger.Records()},
	); err != nil {
		s.ledger.RemoveLast()
		s.inventory.Increment(itemID)
		return domain.SaleRecord{}, fmt.Errorf("persist sale: %w", err)
	}

	s.logger.Info("sale recorded",
		zap.String("item", item.ID),
		zap.String("payment", string(method)),
		zap.String("price", record.FinalPrice.StringFixed(2)))
	return record, nil
}

// UndoLastSale reverses exactly the most recent sale. Repeatable until the
// ledger is empty; there is no redo.
func (s *EventService) UndoLastSale(ctx context.Context) (domain.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseSelling {
		return domain.SaleRecord{}, ErrEventNotStarted
	}

	record, err := s.ledger.RemoveLast()
	if err != nil {
		return domain.SaleRecord{}, err
	}
	if err := s.inventory.Increment(record.ItemID); err != nil {
		s.ledger.Append(record)
		return domain.SaleRecord{}, err
	}

	if err := s.persist(ctx,
		kv{port.KeyInventory, s.inventory.Snapshot()},
		kv{port.KeySales, s.ledger.Records()},
	); err != nil {
		s.inventory.Decrement(record.ItemID)
		s.ledger.Append(record)
		return domain.SaleRecord{}, fmt.Errorf("persist undo: %w", err)
	}

	s.logger.Info("sale undone", zap.String("item", record.ItemID))
	return record, nil
}

// EndEvent moves the operator to the summary phase.
func (s *EventService) EndEvent(ctx context.Context) error {
	return s.setPhase(ctx, domain.PhaseSelling, domain.PhaseSummary)
}

// Reopen returns from summary to selling.
func (s *EventService) Reopen(ctx context.Context) error {
	return s.setPhase(ctx, domain.PhaseSummary, domain.PhaseSelling)
}

func (s *EventService) setPhase(ctx context.Context, from, to domain.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != from {
		return ErrEventNotStarted
	}
	if err := s.persist(ctx, kv{port.KeyEventInfo, persistedEvent{EventInfo: s.info, Phase: to}}); err != nil {
		return fmt.Errorf("set phase: %w", err)
	}
	s.phase = to
	return nil
}

// ResetEvent clears all persisted keys and discards in-memory state,
// returning the operator to setup.
func (s *EventService) ResetEvent(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{port.KeyInventory, port.KeyInitialInventory, port.KeySales, port.KeyEventInfo} {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset event: %w", err)
		}
	}

	s.info = domain.EventInfo{}
	s.phase = domain.PhaseSetup
	s.inventory = domain.NewInventoryStore(s.catalog, nil)
	s.initial = nil
	s.ledger = domain.NewSalesLedger(nil)

	s.logger.Info("event reset")
	return nil
}

func (s *EventService) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *EventService) EventInfo() domain.EventInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

func (s *EventService) Catalog() domain.Catalog {
	return s.catalog
}

// InventorySnapshot returns the current remaining counts.
func (s *EventService) InventorySnapshot() []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory.Snapshot()
}

// InitialSnapshot returns the counts captured at event start.
func (s *EventService) InitialSnapshot() []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.InventoryItem, len(s.initial))
	copy(out, s.initial)
	return out
}

// Sales returns the ledger contents in chronological order.
func (s *EventService) Sales() []domain.SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Records()
}

type kv struct {
	key   string
	value any
}

func (s *EventService) persist(ctx context.Context, pairs ...kv) error {
	for _, p := range pairs {
		data, err := json.Marshal(p.value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", p.key, err)
		}
		if err := s.store.Set(ctx, p.key, data); err != nil {
			return fmt.Errorf("store %s: %w", p.key, err)
		}
	}
	return nil
}

func (s *EventService) loadJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
