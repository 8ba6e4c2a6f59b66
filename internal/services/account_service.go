package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finguard/internal/errors"
	"finguard/internal/models"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateDefaultAccount creates the "Main Account" for a newly registered
// user. It runs on the caller's transaction so user and account are created
// atomically.
func (s *accountService) CreateDefaultAccount(tx *gorm.DB, userID uint) (*models.Account, error) {
	account := &models.Account{
		UserID:  userID,
		Name:    models.DefaultAccountName,
		Balance: decimal.Zero,
	}
	if err := tx.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// GetUserAccounts retrieves all accounts for a user.
func (s *accountService) GetUserAccounts(userID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID for a specific user.
func (s *accountService) GetAccountByID(userID, accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetPrimaryAccount returns the user's oldest account, which is the default
// "Main Account" created at registration.
func (s *accountService) GetPrimaryAccount(userID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// RecalculateBalance derives the account balance from its full transaction
// set: sum of income amounts minus sum of expense amounts, zero when the
// account has no transactions. The result always overwrites the cached
// balance column; it is never patched incrementally. The method is idempotent
// and must run on the same transaction as the mutation that triggered it so
// the cached balance is never observably stale. The single UPDATE on the
// account row serializes concurrent recomputes for the same account.
func (s *accountService) RecalculateBalance(tx *gorm.DB, accountID uint) (decimal.Decimal, error) {
	income, err := s.sumByKind(tx, accountID, models.TransactionKindIncome)
	if err != nil {
		return decimal.Zero, err
	}
	expense, err := s.sumByKind(tx, accountID, models.TransactionKindExpense)
	if err != nil {
		return decimal.Zero, err
	}

	balance := income.Sub(expense)

	result := tx.Model(&models.Account{}).Where("id = ?", accountID).Update("balance", balance)
	if result.Error != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return decimal.Zero, apperrors.ErrAccountNotFound
	}

	return balance, nil
}

func (s *accountService) sumByKind(tx *gorm.DB, accountID uint, kind models.TransactionKind) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("account_id = ? AND kind = ?", accountID, kind).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
