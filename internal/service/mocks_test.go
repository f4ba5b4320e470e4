package service

import (
	"context"
	"sync"
	"time"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"gorm.io/gorm"
)

// In-memory fakes implementing the repository interfaces. The transaction
// closure runs with a nil *gorm.DB, which every fake ignores; status
// updates go through the same compare-and-set semantics as the SQL they
// stand in for.

// --- fake TableRepository ---

type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[uint]*models.Table
}

func newFakeTableRepo(tables ...*models.Table) *fakeTableRepo {
	m := make(map[uint]*models.Table, len(tables))
	for _, t := range tables {
		m[t.ID] = t
	}
	return &fakeTableRepo{tables: m}
}

func (f *fakeTableRepo) GetDB() *gorm.DB { return nil }

func (f *fakeTableRepo) FindByID(ctx context.Context, id uint) (*models.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTableRepo) FindAll(ctx context.Context) ([]models.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Table
	for _, t := range f.tables {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTableRepo) FindByStatus(ctx context.Context, status models.TableStatus) ([]models.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Table
	for _, t := range f.tables {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTableRepo) TryOccupy(ctx context.Context, tx *gorm.DB, tableID, bookingID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[tableID]
	if !ok || t.Status != models.TableEmpty {
		return false, nil
	}
	id := bookingID
	t.Status = models.TableOccupied
	t.CurrentBookingID = &id
	return true, nil
}

func (f *fakeTableRepo) Free(ctx context.Context, tx *gorm.DB, tableID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tables[tableID]; ok {
		t.Status = models.TableEmpty
		t.CurrentBookingID = nil
	}
	return nil
}

func (f *fakeTableRepo) FreeIfClaimedBy(ctx context.Context, tx *gorm.DB, tableID, bookingID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[tableID]
	if !ok || t.CurrentBookingID == nil || *t.CurrentBookingID != bookingID {
		return false, nil
	}
	t.Status = models.TableEmpty
	t.CurrentBookingID = nil
	return true, nil
}

// --- fake BookingRepository ---

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uint]*models.Booking
	nextID   uint
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	m := make(map[uint]*models.Booking, len(bookings))
	var max uint
	for _, b := range bookings {
		m[b.ID] = b
		if b.ID > max {
			max = b.ID
		}
	}
	return &fakeBookingRepo{bookings: m, nextID: max}
}

func (f *fakeBookingRepo) GetDB() *gorm.DB { return nil }

func (f *fakeBookingRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (f *fakeBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	booking.ID = f.nextID
	booking.CreatedAt = time.Now()
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBookingRepo) FindByStatus(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if status == nil || b.Status == *status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindConfirmedByTable(ctx context.Context, tx *gorm.DB, tableID uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TableID == tableID && b.Status == models.BookingConfirmed {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBookingRepo) UpdateStatusIf(ctx context.Context, tx *gorm.DB, id uint, from, to models.BookingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (f *fakeBookingRepo) StampConfirmer(ctx context.Context, tx *gorm.DB, id uint, confirmer string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		b.ConfirmedBy = &confirmer
		b.ConfirmedAt = &at
	}
	return nil
}

// --- fake OrderRepository ---

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uint]*models.Order
	nextID uint
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	m := make(map[uint]*models.Order, len(orders))
	var max uint
	for _, o := range orders {
		m[o.ID] = o
		if o.ID > max {
			max = o.ID
		}
	}
	return &fakeOrderRepo{orders: m, nextID: max}
}

func (f *fakeOrderRepo) GetDB() *gorm.DB { return nil }

func (f *fakeOrderRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (f *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	order.ID = f.nextID
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) latestByTable(tableID uint, pendingOnly bool) (*models.Order, error) {
	var latest *models.Order
	for _, o := range f.orders {
		if o.TableID != tableID {
			continue
		}
		if pendingOnly && o.Status != models.OrderPending {
			continue
		}
		if latest == nil || o.ID > latest.ID {
			latest = o
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeOrderRepo) FindLatestByTable(ctx context.Context, tableID uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestByTable(tableID, false)
}

func (f *fakeOrderRepo) FindLatestByTableForUpdate(ctx context.Context, tx *gorm.DB, tableID uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestByTable(tableID, false)
}

func (f *fakeOrderRepo) FindPendingByTableForUpdate(ctx context.Context, tx *gorm.DB, tableID uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestByTable(tableID, true)
}

func (f *fakeOrderRepo) AddItems(ctx context.Context, tx *gorm.DB, orderID uint, items []models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Items = append(o.Items, items...)
	return nil
}

func (f *fakeOrderRepo) UpdateTotal(ctx context.Context, tx *gorm.DB, orderID uint, total float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[orderID]; ok {
		o.TotalAmount = total
	}
	return nil
}

func (f *fakeOrderRepo) UpdateStatusIf(ctx context.Context, tx *gorm.DB, id uint, from, to models.OrderStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

// --- fake TransactionRepository ---

type fakeTxRepo struct {
	mu     sync.Mutex
	txs    map[uint]*models.Transaction
	nextID uint
}

func newFakeTxRepo(txs ...*models.Transaction) *fakeTxRepo {
	m := make(map[uint]*models.Transaction, len(txs))
	var max uint
	for _, t := range txs {
		m[t.ID] = t
		if t.ID > max {
			max = t.ID
		}
	}
	return &fakeTxRepo{txs: m, nextID: max}
}

func (f *fakeTxRepo) GetDB() *gorm.DB { return nil }

func (f *fakeTxRepo) Create(ctx context.Context, tx *gorm.DB, t *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	cp := *t
	f.txs[t.ID] = &cp
	return nil
}

func (f *fakeTxRepo) FindByRef(ctx context.Context, ref string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.txs {
		if t.Ref == ref {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTxRepo) FindByBooking(ctx context.Context, bookingID uint) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, t := range f.txs {
		if t.BookingID != nil && *t.BookingID == bookingID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTxRepo) FindCompletedDeposit(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.txs {
		if t.BookingID != nil && *t.BookingID == bookingID &&
			t.Type == models.TxDeposit && t.Status == models.TxCompleted {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTxRepo) FindSettlementByOrder(ctx context.Context, tx *gorm.DB, orderID uint) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.txs {
		if t.OrderID == nil || *t.OrderID != orderID || t.Status != models.TxCompleted {
			continue
		}
		switch t.Type {
		case models.TxRefund, models.TxAdditionalPayment, models.TxFinalSettlement:
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- fake MenuRepository ---

type fakeMenuRepo struct {
	items map[uint]models.MenuItem
}

func newFakeMenuRepo(items ...models.MenuItem) *fakeMenuRepo {
	m := make(map[uint]models.MenuItem, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return &fakeMenuRepo{items: m}
}

func (f *fakeMenuRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

// --- fake NotificationRepository ---

type receiptKey struct {
	notificationID uint
	actorID        string
}

type fakeNotifRepo struct {
	mu       sync.Mutex
	rows     map[uint]*models.Notification
	receipts map[receiptKey]*models.NotificationReceipt
	nextID   uint
	err      error
}

func newFakeNotifRepo() *fakeNotifRepo {
	return &fakeNotifRepo{
		rows:     make(map[uint]*models.Notification),
		receipts: make(map[receiptKey]*models.NotificationReceipt),
	}
}

func (f *fakeNotifRepo) Create(ctx context.Context, n *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	cp := *n
	f.rows[n.ID] = &cp
	return nil
}

func matchesAny(n *models.Notification, recipients []models.Recipient) bool {
	for _, r := range recipients {
		if n.RecipientKind == r.Kind && n.RecipientID == r.ID {
			return true
		}
	}
	return false
}

func (f *fakeNotifRepo) receipt(id uint, actorID string) *models.NotificationReceipt {
	return f.receipts[receiptKey{notificationID: id, actorID: actorID}]
}

func (f *fakeNotifRepo) List(ctx context.Context, actorID string, recipients []models.Recipient) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.rows {
		if !matchesAny(n, recipients) {
			continue
		}
		cp := *n
		if cp.Broadcast() {
			rc := f.receipt(cp.ID, actorID)
			if rc != nil && rc.DismissedAt != nil {
				continue
			}
			cp.IsRead = rc != nil && rc.ReadAt != nil
			cp.ReadAt = nil
			if cp.IsRead {
				cp.ReadAt = rc.ReadAt
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeNotifRepo) markReceipt(id uint, actorID string, read, dismissed bool) {
	key := receiptKey{notificationID: id, actorID: actorID}
	rc := f.receipts[key]
	if rc == nil {
		rc = &models.NotificationReceipt{NotificationID: id, ActorID: actorID}
		f.receipts[key] = rc
	}
	now := time.Now()
	if read {
		rc.ReadAt = &now
	}
	if dismissed {
		rc.DismissedAt = &now
	}
}

func (f *fakeNotifRepo) MarkRead(ctx context.Context, id uint, actorID string, recipients []models.Recipient) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[id]
	if !ok || !matchesAny(n, recipients) {
		return false, nil
	}
	if n.Broadcast() {
		f.markReceipt(id, actorID, true, false)
		return true, nil
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	return true, nil
}

func (f *fakeNotifRepo) MarkAllRead(ctx context.Context, actorID string, recipients []models.Recipient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, n := range f.rows {
		if !matchesAny(n, recipients) {
			continue
		}
		if n.Broadcast() {
			f.markReceipt(n.ID, actorID, true, false)
			continue
		}
		if !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (f *fakeNotifRepo) Delete(ctx context.Context, id uint, actorID string, recipients []models.Recipient) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[id]
	if !ok || !matchesAny(n, recipients) {
		return false, nil
	}
	if n.Broadcast() {
		f.markReceipt(id, actorID, false, true)
		return true, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeNotifRepo) UnreadCount(ctx context.Context, actorID string, recipients []models.Recipient) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.rows {
		if !matchesAny(n, recipients) {
			continue
		}
		if n.Broadcast() {
			rc := f.receipt(n.ID, actorID)
			if rc == nil || (rc.ReadAt == nil && rc.DismissedAt == nil) {
				count++
			}
			continue
		}
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// --- event bus fakes ---

type recordingBus struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (b *recordingBus) Publish(event string, payload any) error {
	if b.err != nil {
		return b.err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

// --- recording NotificationService stub ---

type enqueued struct {
	Recipient models.Recipient
	Type      models.NotificationType
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []enqueued
}

func (s *stubNotifier) Enqueue(ctx context.Context, rcpt models.Recipient, typ models.NotificationType, title, message string, bookingID *uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, enqueued{Recipient: rcpt, Type: typ})
	return nil
}

func (s *stubNotifier) List(ctx context.Context, actor models.Actor) ([]models.Notification, error) {
	return nil, nil
}
func (s *stubNotifier) MarkRead(ctx context.Context, id uint, actor models.Actor) error    { return nil }
func (s *stubNotifier) MarkAllRead(ctx context.Context, actor models.Actor) error          { return nil }
func (s *stubNotifier) Delete(ctx context.Context, id uint, actor models.Actor) error      { return nil }
func (s *stubNotifier) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) { return 0, nil }

func (s *stubNotifier) sentTypes() []models.NotificationType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.NotificationType, len(s.sent))
	for i, e := range s.sent {
		out[i] = e.Type
	}
	return out
}
