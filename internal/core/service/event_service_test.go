package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jerseystand/event-sales/internal/core/domain"
)

// Mock StateRepository
type mockStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failSet bool
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return value, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("store unavailable")
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func newTestService(t *testing.T, store *mockStore) *EventService {
	t.Helper()
	svc := NewEventService(store, zap.NewNop())
	err := svc.StartEvent(context.Background(), domain.EventInfo{Name: "Test Event"}, map[string]int{
		"black-s": 5,
		"white-m": 2,
	})
	if err != nil {
		t.Fatalf("start event failed: %v", err)
	}
	return svc
}

func remaining(t *testing.T, svc *EventService, itemID string) int {
	t.Helper()
	for _, item := range svc.InventorySnapshot() {
		if item.ID == itemID {
			return item.Remaining
		}
	}
	t.Fatalf("item %s not in snapshot", itemID)
	return 0
}

func TestRecordSale_Success(t *testing.T) {
	svc := newTestService(t, newMockStore())

	record, err := svc.RecordSale(context.Background(), "black-s", domain.PaymentCash, domain.NoDiscount())
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if !record.FinalPrice.Equal(decimal.NewFromInt(65)) {
		t.Errorf("expected final price 65, got %s", record.FinalPrice)
	}
	if record.ID == "" {
		t.Error("expected non-empty record ID")
	}
	if got := remaining(t, svc, "black-s"); got != 4 {
		t.Errorf("expected remaining 4, got %d", got)
	}
	if got := len(svc.Sales()); got != 1 {
		t.Errorf("expected 1 sale, got %d", got)
	}
}

func TestRecordSale_WithDiscount(t *testing.T) {
	svc := newTestService(t, newMockStore())

	record, err := svc.RecordSale(context.Background(), "black-s", domain.PaymentVenmo,
		domain.DiscountSpec{Type: domain.DiscountPercent, Value: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if !record.FinalPrice.Equal(decimal.NewFromFloat(58.5)) {
		t.Errorf("expected final price 58.5, got %s", record.FinalPrice)
	}
	if !record.UnitPriceAtSale.Equal(decimal.NewFromInt(65)) {
		t.Errorf("expected unit price 65, got %s", record.UnitPriceAtSale)
	}
}

func TestRecordSale_UnknownItem(t *testing.T) {
	svc := newTestService(t, newMockStore())

	_, err := svc.RecordSale(context.Background(), "green-xxl", domain.PaymentCash, domain.NoDiscount())
	if !errors.Is(err, domain.ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
	if got := len(svc.Sales()); got != 0 {
		t.Errorf("expected no sales, got %d", got)
	}
}

func TestRecordSale_OutOfStock(t *testing.T) {
	svc := newTestService(t, newMockStore())

	// black-l started at zero
	_, err := svc.RecordSale(context.Background(), "black-l", domain.PaymentCash, domain.NoDiscount())
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got %v", err)
	}
	if got := remaining(t, svc, "black-l"); got != 0 {
		t.Errorf("expected remaining 0, got %d", got)
	}
	if got := len(svc.Sales()); got != 0 {
		t.Errorf("expected no ledger mutation, got %d sales", got)
	}
}

func TestRecordSale_InvalidPayment(t *testing.T) {
	svc := newTestService(t, newMockStore())

	_, err := svc.RecordSale(context.Background(), "black-s", "Barter", domain.NoDiscount())
	if !errors.Is(err, ErrInvalidPayment) {
		t.Errorf("expected ErrInvalidPayment, got %v", err)
	}
	if got := remaining(t, svc, "black-s"); got != 5 {
		t.Errorf("expected remaining 5, got %d", got)
	}
}

func TestRecordSale_BeforeStart(t *testing.T) {
	svc := NewEventService(newMockStore(), zap.NewNop())

	_, err := svc.RecordSale(context.Background(), "black-s", domain.PaymentCash, domain.NoDiscount())
	if !errors.Is(err, ErrEventNotStarted) {
		t.Errorf("expected ErrEventNotStarted, got %v", err)
	}
}

func TestRecordSale_PersistFailureRollsBack(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store)

	store.failSet = true
	_, err := svc.RecordSale(context.Background(), "black-s", domain.PaymentCash, domain.NoDiscount())
	if err == nil {
		t.Fatal("expected error when store is unavailable")
	}

	if got := remaining(t, svc, "black-s"); got != 5 {
		t.Errorf("expected remaining restored to 5, got %d", got)
	}
	if got := len(svc.Sales()); got != 0 {
		t.Errorf("expected empty ledger after rollback, got %d", got)
	}
}

func TestUndoLastSale_IsLeftInverse(t *testing.T) {
	svc := newTestService(t, newMockStore())

	if _, err := svc.RecordSale(context.Background(), "black-s", domain.PaymentCash, domain.NoDiscount()); err != nil {
		t.Fatalf("sale failed: %v", err)
	}
	sold, err := svc.RecordSale(context.Background(), "black-s", domain.PaymentVenmo, domain.NoDiscount())
	if err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	undone, err := svc.UndoLastSale(context.Background())
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	if undone.ID != sold.ID {
		t.Errorf("expected undo to return the last sale, got %s", undone.ID)
	}
	if got := remaining(t, svc, "black-s"); got != 4 {
		t.Errorf("expected remaining 4, got %d", got)
	}
	if got := len(svc.Sales()); got != 1 {
		t.Errorf("expected 1 sale left, got %d", got)
	}
}

func TestUndoLastSale_Repeatable(t *testing.T) {
	svc := newTestService(t, newMockStore())
	ctx := context.Background()

	svc.RecordSale(ctx, "black-s", domain.PaymentCash, domain.NoDiscount())
	svc.RecordSale(ctx, "white-m", domain.PaymentZelle, domain.NoDiscount())

	for i := 0; i < 2; i++ {
		if _, err := svc.UndoLastSale(ctx); err != nil {
			t.Fatalf("undo %d failed: %v", i, err)
		}
	}

	if got := remaining(t, svc, "black-s"); got != 5 {
		t.Errorf("expected remaining 5, got %d", got)
	}
	if got := remaining(t, svc, "white-m"); got != 2 {
		t.Errorf("expected remaining 2, got %d", got)
	}
	if got := len(svc.Sales()); got != 0 {
		t.Errorf("expected empty ledger, got %d", got)
	}
}

func TestUndoLastSale_EmptyLedger(t *testing.T) {
	svc := newTestService(t, newMockStore())

	_, err := svc.UndoLastSale(context.Background())
	if !errors.Is(err, domain.ErrEmptyLedger) {
		t.Errorf("expected ErrEmptyLedger, got %v", err)
	}
	if got := remaining(t, svc, "black-s"); got != 5 {
		t.Errorf("expected inventory unchanged, got %d", got)
	}
}

func TestConservation(t *testing.T) {
	svc := newTestService(t, newMockStore())
	ctx := context.Background()

	initialTotal := 0
	for _, item := range svc.InitialSnapshot() {
		initialTotal += item.Remaining
	}

	svc.RecordSale(ctx, "black-s", domain.PaymentCash, domain.NoDiscount())
	svc.RecordSale(ctx, "black-s", domain.PaymentPayPal, domain.NoDiscount())
	svc.RecordSale(ctx, "white-m", domain.PaymentVenmo, domain.NoDiscount())

	currentTotal := 0
	for _, item := range svc.InventorySnapshot() {
		currentTotal += item.Remaining
	}

	if currentTotal+len(svc.Sales()) != initialTotal {
		t.Errorf("conservation violated: %d remaining + %d sold != %d initial",
			currentTotal, len(svc.Sales()), initialTotal)
	}
}

func TestRestore(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	svc.RecordSale(ctx, "black-s", domain.PaymentCash, domain.NoDiscount())

	revived := NewEventService(store, zap.NewNop())
	if err := revived.Restore(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if revived.Phase() != domain.PhaseSelling {
		t.Errorf("expected selling phase, got %s", revived.Phase())
	}
	if revived.EventInfo().Name != "Test Event" {
		t.Errorf("unexpected event info %+v", revived.EventInfo())
	}
	if got := remaining(t, revived, "black-s"); got != 4 {
		t.Errorf("expected remaining 4 after restore, got %d", got)
	}
	if got := len(revived.Sales()); got != 1 {
		t.Errorf("expected 1 sale after restore, got %d", got)
	}
}

func TestRestore_MalformedStateFallsBack(t *testing.T) {
	store := newMockStore()
	store.data["eventInfo"] = []byte("{not json")

	svc := NewEventService(store, zap.NewNop())
	if err := svc.Restore(context.Background()); err != nil {
		t.Fatalf("restore should not fail on malformed state: %v", err)
	}
	if svc.Phase() != domain.PhaseSetup {
		t.Errorf("expected setup phase, got %s", svc.Phase())
	}
}

func TestEventLifecycle(t *testing.T) {
	svc := newTestService(t, newMockStore())
	ctx := context.Background()

	if err := svc.EndEvent(ctx); err != nil {
		t.Fatalf("end event failed: %v", err)
	}
	if svc.Phase() != domain.PhaseSummary {
		t.Errorf("expected summary phase, got %s", svc.Phase())
	}

	if _, err := svc.UndoLastSale(ctx); !errors.Is(err, ErrEventNotStarted) {
		t.Errorf("expected ErrEventNotStarted in summary phase, got %v", err)
	}

	if err := svc.Reopen(ctx); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if svc.Phase() != domain.PhaseSelling {
		t.Errorf("expected selling phase, got %s", svc.Phase())
	}
}

func TestResetEvent(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	svc.RecordSale(ctx, "black-s", domain.PaymentCash, domain.NoDiscount())

	if err := svc.ResetEvent(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if svc.Phase() != domain.PhaseSetup {
		t.Errorf("expected setup phase, got %s", svc.Phase())
	}
	if got := len(svc.Sales()); got != 0 {
		t.Errorf("expected empty ledger, got %d", got)
	}
	if len(store.data) != 0 {
		t.Errorf("expected all persisted keys removed, %d remain", len(store.data))
	}
}
