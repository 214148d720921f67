// Package memory keeps orders, vouchers, counters and users in process memory.
// It backs local runs and the command handler tests. Units of work run one at a
// time: Begin waits until the previous unit commits or rolls back. A unit of
// work records an undo entry for every write so Rollback restores the previous
// state. Repositories obtained outside a unit of work read and write straight
// through.
package memory

import (
	"context"
	"sync"
	"time"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/user"
	"catering/internal/core/domain/model/voucher"
	"catering/internal/core/ports"
	"catering/internal/pkg/errs"

	"github.com/google/uuid"
)

// Store holds the data shared by every unit of work created from it.
type Store struct {
	tx chan struct{} // holds one token while a unit of work is active

	mu       sync.Mutex
	orders   map[uuid.UUID]order.State
	vouchers map[string]voucher.State
	counters map[string]int64
	users    map[uuid.UUID]*user.User
}

func NewStore() *Store {
	return &Store{
		tx:       make(chan struct{}, 1),
		orders:   make(map[uuid.UUID]order.State),
		vouchers: make(map[string]voucher.State),
		counters: make(map[string]int64),
		users:    make(map[uuid.UUID]*user.User),
	}
}

// AddUser seeds the user directory.
func (s *Store) AddUser(u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID().Google()] = u
	return nil
}

// Users returns the store's ports.UserDirectory.
func (s *Store) Users() ports.UserDirectory {
	return userDirectory{store: s}
}

type userDirectory struct {
	store *Store
}

func (d userDirectory) Get(_ context.Context, id kernel.UUID) (*user.User, error) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	u, ok := d.store.users[id.Google()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("user", id.String())
	}
	return u, nil
}

// IncrementAndGet implements ports.SequenceCounter.
func (s *Store) IncrementAndGet(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.counters[name]
	s.counters[name] = previous + 1
	return previous, nil
}

var _ ports.SequenceCounter = (*Store)(nil)

type undoLog interface {
	record(undo func())
}

// noUndo is used by repositories obtained outside a transaction.
type noUndo struct{}

func (noUndo) record(func()) {}

type orderRepository struct {
	store *Store
	undo  undoLog
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	key := aggregate.ID().Google()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.orders[key]; exists {
		return errs.NewObjectAlreadyExistsError("order", aggregate.ID().String())
	}
	r.store.orders[key] = aggregate.State()
	r.undo.record(func() { delete(r.store.orders, key) })
	return nil
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	state, ok := r.store.orders[id.Google()]
	r.store.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.Restore(state)
}

func (r *orderRepository) UpdatePending(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	key := aggregate.ID().Google()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	previous, ok := r.store.orders[key]
	if !ok {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	if previous.Status != order.Pending {
		return errs.NewInvalidStateError("order", previous.Status, "update")
	}
	r.store.orders[key] = aggregate.State()
	r.undo.record(func() { r.store.orders[key] = previous })
	return nil
}

func (r *orderRepository) Delete(_ context.Context, id kernel.UUID) (bool, error) {
	key := id.Google()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	previous, ok := r.store.orders[key]
	if !ok {
		return false, nil
	}
	delete(r.store.orders, key)
	r.undo.record(func() { r.store.orders[key] = previous })
	return true, nil
}

func (r *orderRepository) ListPending(_ context.Context) ([]*order.Order, error) {
	r.store.mu.Lock()
	states := make([]order.State, 0)
	for _, state := range r.store.orders {
		if state.Status == order.Pending {
			states = append(states, state)
		}
	}
	r.store.mu.Unlock()

	orders := make([]*order.Order, 0, len(states))
	for _, state := range states {
		o, err := order.Restore(state)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

type voucherRepository struct {
	store *Store
	undo  undoLog
}

func (r *voucherRepository) Get(_ context.Context, code string) (*voucher.Voucher, error) {
	r.store.mu.Lock()
	state, ok := r.store.vouchers[voucher.NormalizeCode(code)]
	r.store.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("voucher", code)
	}
	return voucher.Restore(state)
}

func (r *voucherRepository) Add(_ context.Context, aggregate *voucher.Voucher) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	code := aggregate.Code()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.vouchers[code]; exists {
		return errs.NewObjectAlreadyExistsError("voucher", code)
	}
	r.store.vouchers[code] = aggregate.State()
	r.undo.record(func() { delete(r.store.vouchers, code) })
	return nil
}

func (r *voucherRepository) Update(_ context.Context, aggregate *voucher.Voucher) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	code := aggregate.Code()
	expected := aggregate.Version() - 1

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	previous, ok := r.store.vouchers[code]
	if !ok {
		return errs.NewObjectNotFoundError("voucher", code)
	}
	if previous.Version != expected {
		return errs.NewVersionConflictError("voucher", code, expected)
	}
	r.store.vouchers[code] = aggregate.State()
	r.undo.record(func() { r.store.vouchers[code] = previous })
	return nil
}

func (r *voucherRepository) ListExpiredUntil(_ context.Context, now time.Time) ([]*voucher.Voucher, error) {
	r.store.mu.Lock()
	states := make([]voucher.State, 0)
	for _, state := range r.store.vouchers {
		if state.ExpirationType == voucher.Until && state.Status == voucher.Valid &&
			state.Expiration != nil && !state.Expiration.After(now) {
			states = append(states, state)
		}
	}
	r.store.mu.Unlock()

	vouchers := make([]*voucher.Voucher, 0, len(states))
	for _, state := range states {
		v, err := voucher.Restore(state)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, nil
}

// OrderRepository returns a repository writing straight to the store.
func (s *Store) OrderRepository() ports.OrderRepository {
	return &orderRepository{store: s, undo: noUndo{}}
}

// VoucherRepository returns a repository writing straight to the store.
func (s *Store) VoucherRepository() ports.VoucherRepository {
	return &voucherRepository{store: s, undo: noUndo{}}
}
