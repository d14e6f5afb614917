// Package transfer moves money between two users' ledgers as a single
// all-or-nothing operation.
package transfer

import (
	"context"
	"fmt"
	"time"

	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/models"
	"fjacquet/finance-manager/internal/walleterror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLockTimeout bounds how long a transfer waits for both ledgers.
const DefaultLockTimeout = 5 * time.Second

// Result describes a completed transfer.
type Result struct {
	Sender        string             `json:"sender" yaml:"sender"`
	Receiver      string             `json:"receiver" yaml:"receiver"`
	Amount        decimal.Decimal    `json:"amount" yaml:"amount"`
	Debit         models.Transaction `json:"debit" yaml:"debit"`
	Credit        models.Transaction `json:"credit" yaml:"credit"`
	SenderBalance decimal.Decimal    `json:"sender_balance" yaml:"sender_balance"`
}

// Coordinator performs transfers.
type Coordinator struct {
	logger      logging.Logger
	lockTimeout time.Duration
	now         func() time.Time
}

// NewCoordinator creates a Coordinator. A non-positive lockTimeout falls
// back to DefaultLockTimeout.
func NewCoordinator(logger logging.Logger, lockTimeout time.Duration) *Coordinator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Coordinator{
		logger:      logger,
		lockTimeout: lockTimeout,
		now:         time.Now,
	}
}

// SetClock overrides the clock used to date transfer transactions.
func (c *Coordinator) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Transfer debits sender and credits receiver by amount. Both ledgers are
// locked in owner order for the whole operation, so other readers see
// either both entries or neither. The balance check happens under the lock.
func (c *Coordinator) Transfer(ctx context.Context, sender, receiver *ledger.Ledger, amount decimal.Decimal, description string) (Result, error) {
	if sender == nil {
		return Result{}, walleterror.NewValidationError("sender", "sender wallet is required")
	}
	if receiver == nil {
		return Result{}, walleterror.NewValidationError("receiver", "recipient not found")
	}
	if sender == receiver || sender.Owner() == receiver.Owner() {
		return Result{}, walleterror.NewValidationError("receiver", "cannot transfer to yourself")
	}
	amount = models.RoundAmount(amount)
	if !amount.IsPositive() {
		return Result{}, walleterror.NewValidationError("amount", "must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, c.lockTimeout)
	defer cancel()

	logger := c.logger.WithFields(
		logging.Field{Key: logging.FieldOwner, Value: sender.Owner()},
		logging.Field{Key: logging.FieldCounterparty, Value: receiver.Owner()},
		logging.Field{Key: logging.FieldAmount, Value: models.FormatAmount(amount)},
	)

	now := c.now()
	debit := models.Transaction{
		ID:          uuid.New().String(),
		Amount:      amount,
		Type:        models.TransactionTypeExpense,
		Category:    models.CategoryTransfer,
		Date:        now,
		Description: fmt.Sprintf("Transfer to %s: %s", receiver.Owner(), description),
	}
	credit := models.Transaction{
		ID:          uuid.New().String(),
		Amount:      amount,
		Type:        models.TransactionTypeIncome,
		Category:    models.CategoryTransfer,
		Date:        now,
		Description: fmt.Sprintf("Transfer from %s: %s", sender.Owner(), description),
	}

	var senderBalance decimal.Decimal
	err := ledger.UpdatePair(ctx, sender, receiver, func(from, to *ledger.Tx) error {
		balance := from.Balance()
		if balance.LessThan(amount) {
			return &walleterror.InsufficientFundsError{
				Owner:     from.Owner(),
				Balance:   balance,
				Requested: amount,
			}
		}
		from.AddTransaction(debit)
		to.AddTransaction(credit)
		senderBalance = from.Balance()
		return nil
	})
	if err != nil {
		logger.WithError(err).Warn("Transfer rejected")
		return Result{}, err
	}

	logger.Info("Transfer completed")
	return Result{
		Sender:        sender.Owner(),
		Receiver:      receiver.Owner(),
		Amount:        amount,
		Debit:         debit,
		Credit:        credit,
		SenderBalance: senderBalance,
	}, nil
}
