package leavebalance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalSnapshot controls what an APPROVAL entry records as
// BalanceAfter. The platform's historical ledger wrote
// balanceBefore - days even though approving is availability-neutral
// (pending moves to used). Both behaviors are kept explicit; which one
// is authoritative is an open call for the domain owner.
type ApprovalSnapshot int

const (
	// SnapshotDebit reproduces the historical entries: BalanceAfter =
	// BalanceBefore - days on approval.
	SnapshotDebit ApprovalSnapshot = iota
	// SnapshotNeutral records the true post-transaction availability.
	SnapshotNeutral
)

// Delta is the cache movement implied by one ledger entry.
type Delta struct {
	Total   float64
	Used    float64
	Pending float64
	Carry   float64
}

// deltaFor derives the cache update from the entry itself, so a ledger
// append and its cache effect cannot disagree.
func deltaFor(txType string, days float64) (Delta, error) {
	switch txType {
	case TxAccrual, TxEncashment, TxLapse:
		return Delta{Total: days}, nil
	case TxCarryForward:
		return Delta{Carry: days}, nil
	case TxApplication, TxRejection, TxCancellation:
		return Delta{Pending: days}, nil
	case TxApproval:
		return Delta{Used: days, Pending: -days}, nil
	default:
		return Delta{}, fmt.Errorf("unknown ledger transaction type: %s", txType)
	}
}

// Books posts ledger entries and keeps the balance cache in lockstep.
// Every balance-affecting operation in the engine funnels through Post.
type Books struct {
	repo     Repository
	snapshot ApprovalSnapshot
}

func NewBooks(repo Repository, snapshot ApprovalSnapshot) *Books {
	return &Books{repo: repo, snapshot: snapshot}
}

// Post appends entry and applies its implied delta to the balance row,
// inside the caller's transaction. The balance row is locked FOR UPDATE
// (created when absent), which serializes every mutation of one
// (employee, type, year) key: concurrent appliers queue on the row lock
// and re-read availability after acquiring it.
func (b *Books) Post(ctx context.Context, tx *gorm.DB, entry *LedgerEntry) (*LeaveBalance, error) {
	qtx := b.repo.WithTx(tx)

	key := BalanceKey{
		TenantID:    entry.TenantID.String(),
		EmployeeID:  entry.EmployeeID.String(),
		LeaveTypeID: entry.LeaveTypeID.String(),
		Year:        entry.Year,
	}

	bal, err := lockOrCreate(ctx, qtx, key)
	if err != nil {
		return nil, err
	}

	delta, err := deltaFor(entry.TransactionType, entry.Days)
	if err != nil {
		return nil, err
	}

	before := bal.AvailableDays()

	bal.TotalDays += delta.Total
	bal.UsedDays += delta.Used
	bal.PendingDays += delta.Pending
	bal.CarryForward += delta.Carry

	entry.BalanceBefore = before
	if entry.TransactionType == TxApproval && b.snapshot == SnapshotDebit {
		entry.BalanceAfter = before - entry.Days
	} else {
		entry.BalanceAfter = bal.AvailableDays()
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if err := qtx.AppendLedger(ctx, entry); err != nil {
		return nil, err
	}
	if err := qtx.Save(ctx, bal); err != nil {
		return nil, err
	}

	return bal, nil
}

// LockBalance locks (creating when absent) the balance row for the rest
// of the transaction and returns it. Availability checks that precede a
// Post must read through this lock, never through an unlocked query.
func (b *Books) LockBalance(ctx context.Context, tx *gorm.DB, key BalanceKey) (*LeaveBalance, error) {
	return lockOrCreate(ctx, b.repo.WithTx(tx), key)
}

func lockOrCreate(ctx context.Context, qtx Repository, key BalanceKey) (*LeaveBalance, error) {
	bal, err := qtx.FindForUpdate(ctx, key)
	if err == nil {
		return bal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Lazily create the zero row on the first balance-affecting event for
	// this key. The insert is owned by this tx, which gives the same
	// exclusion as the row lock.
	created := &LeaveBalance{
		ID:          uuid.New(),
		TenantID:    uuid.MustParse(key.TenantID),
		EmployeeID:  uuid.MustParse(key.EmployeeID),
		LeaveTypeID: uuid.MustParse(key.LeaveTypeID),
		Year:        key.Year,
	}
	if err := qtx.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// Replayed is the balance reconstructed purely from ledger entries.
type Replayed struct {
	Total   float64
	Used    float64
	Pending float64
	Carry   float64
}

// Replay folds entries with the same delta mapping Post uses. For any
// committed history, Replay(entries) must equal the cached row.
func Replay(entries []LedgerEntry) (Replayed, error) {
	var r Replayed
	for _, e := range entries {
		delta, err := deltaFor(e.TransactionType, e.Days)
		if err != nil {
			return Replayed{}, err
		}
		r.Total += delta.Total
		r.Used += delta.Used
		r.Pending += delta.Pending
		r.Carry += delta.Carry
	}
	return r, nil
}
