package pgsql

import (
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ConfirmationRepo: newPgxConfirmationRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		ExpenseRepo:      newPgxExpenseRepository(dbPool),
		HolderRepo:       newPgxHolderRepository(dbPool),
		AttachmentRepo:   newPgxAttachmentRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		ProfileRepo:      newPgxProfileRepository(dbPool),
		SavedHotelRepo:   newPgxSavedHotelRepository(dbPool),
		ImportTokenRepo:  newPgxImportTokenRepository(dbPool),
	}
}
