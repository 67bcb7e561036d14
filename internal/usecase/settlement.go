package usecase

import (
	"context"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/errs"
)

// Withdraw pays out the caller's full credit balance. The balance is zeroed
// in the ledger before the outward transfer is issued, so a reentrant call
// arriving during the transfer observes zero and fails the positive-balance
// precondition; the guard sequence then fails the outer withdrawal too and
// the journal restores the balance untouched.
func (e *Engine) Withdraw(ctx context.Context, caller string) (int64, error) {
	var paid int64
	err := e.run(ctx, "withdraw", func() error {
		token := e.store.EnterGuard()
		if err := e.requireOperational(); err != nil {
			return err
		}
		amount := e.store.Credit(caller)
		if amount <= 0 {
			return errs.ErrNoPositiveCredit
		}

		e.store.SetCredit(caller, 0)
		if err := e.treasury.Transfer(ctx, caller, amount); err != nil {
			return err
		}
		if e.store.GuardMoved(token) {
			return errs.ErrReentrancyDetected
		}

		e.emit(entity.Event{Type: entity.EventCreditPayout, Principal: caller, Amount: amount})
		e.logger.Info("Credit paid out", "address", caller, "amount", amount)
		paid = amount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}

// CreditOf returns the credit balance owed to addr.
func (e *Engine) CreditOf(addr string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Credit(addr)
}
