package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catering/internal/core/ports"
)

// ErrNoTransaction mirrors gorm.ErrInvalidTransaction for Commit and Rollback
// without a matching Begin.
var ErrNoTransaction = errors.New("no active transaction")

var ErrUnknownSavePoint = errors.New("unknown savepoint")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork undoes its writes on Rollback. Between Begin and Commit or
// Rollback it holds the store's transaction slot, so no other unit of work sees
// or overwrites its uncommitted writes. Repositories obtained before Begin write
// through without an undo log.
type UnitOfWork struct {
	store *Store

	mu         sync.Mutex
	active     bool
	undo       []func()
	savepoints map[string]int
}

// Begin blocks until no other unit of work is active or ctx is done.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	uow.mu.Lock()
	active := uow.active
	uow.mu.Unlock()
	if active {
		return nil
	}

	select {
	case uow.store.tx <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	uow.mu.Lock()
	defer uow.mu.Unlock()
	uow.active = true
	uow.undo = nil
	uow.savepoints = nil
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return ErrNoTransaction
	}
	uow.active = false
	uow.undo = nil
	uow.savepoints = nil
	<-uow.store.tx
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	uow.mu.Lock()
	if !uow.active {
		uow.mu.Unlock()
		return ErrNoTransaction
	}
	undo := uow.undo
	uow.active = false
	uow.undo = nil
	uow.savepoints = nil
	uow.mu.Unlock()

	uow.store.mu.Lock()
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	uow.store.mu.Unlock()

	<-uow.store.tx
	return nil
}

// SavePoint remembers the current length of the undo log under name.
func (uow *UnitOfWork) SavePoint(_ context.Context, name string) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return ErrNoTransaction
	}
	if uow.savepoints == nil {
		uow.savepoints = make(map[string]int)
	}
	uow.savepoints[name] = len(uow.undo)
	return nil
}

// RollbackTo undoes the writes recorded after the named savepoint. The
// savepoint stays usable.
func (uow *UnitOfWork) RollbackTo(_ context.Context, name string) error {
	uow.mu.Lock()
	if !uow.active {
		uow.mu.Unlock()
		return ErrNoTransaction
	}
	mark, ok := uow.savepoints[name]
	if !ok {
		uow.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownSavePoint, name)
	}
	undo := uow.undo[mark:]
	uow.undo = uow.undo[:mark:mark]
	for other, m := range uow.savepoints {
		if m > mark {
			delete(uow.savepoints, other)
		}
	}
	uow.mu.Unlock()

	uow.store.mu.Lock()
	defer uow.store.mu.Unlock()
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{store: uow.store, undo: uow.log()}
}

func (uow *UnitOfWork) VoucherRepository() ports.VoucherRepository {
	return &voucherRepository{store: uow.store, undo: uow.log()}
}

func (uow *UnitOfWork) log() undoLog {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return noUndo{}
	}
	return uow
}

// record is called with the store lock held.
func (uow *UnitOfWork) record(undo func()) {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if uow.active {
		uow.undo = append(uow.undo, undo)
	}
}
