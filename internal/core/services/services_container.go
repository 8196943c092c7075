package services

import (
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/platform/config"
)

// Dependencies are the non-relational collaborators the services need.
// Cache and Attempts may be nil.
type Dependencies struct {
	Cache    ports.QueryCache
	Attempts ports.AttemptTracker
	Storage  ports.ObjectStorage
	Jobs     ports.JobEnqueuer
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Dependencies) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	fin := cfg.Finance

	// Exchange rates first; balances and the ledger convert through them
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, RateDefaults{
		GelToUSD:            fin.DefaultGelToUSD,
		UsdToGEL:            fin.DefaultUsdToGEL,
		ReciprocalTolerance: fin.ReciprocalTolerance,
	}, deps.Cache)

	container.Profile = NewProfileService(repos.ProfileRepo)
	container.Confirmation = NewConfirmationService(
		repos.ConfirmationRepo,
		repos.TransactionRepo,
		WithConfirmationCache(deps.Cache),
	)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.HolderRepo, repos.ConfirmationRepo, deps.Cache)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.ConfirmationRepo, deps.Cache)
	container.Holder = NewHolderService(repos.HolderRepo, repos.TransactionRepo, container.ExchangeRate, fin.LedgerWindowLimit, deps.Cache)

	container.Finance = NewFinanceService(FinanceDeps{
		ConfirmationRepo: repos.ConfirmationRepo,
		TransactionRepo:  repos.TransactionRepo,
		ExpenseRepo:      repos.ExpenseRepo,
		HolderRepo:       repos.HolderRepo,
		RateSvc:          container.ExchangeRate,
		Attempts:         deps.Attempts,
		Cache:            deps.Cache,
		Policy:           fin.Policy(),
		WindowLimit:      fin.LedgerWindowLimit,
	})

	container.Attachment = NewAttachmentService(AttachmentDeps{
		AttachmentRepo:   repos.AttachmentRepo,
		ConfirmationRepo: repos.ConfirmationRepo,
		ExpenseRepo:      repos.ExpenseRepo,
		Storage:          deps.Storage,
		Cache:            deps.Cache,
		LegacyMatching:   fin.LegacyStayMatching,
	})
	container.Booking = NewBookingService(repos.ConfirmationRepo, repos.SavedHotelRepo, deps.Jobs, deps.Cache)
	container.Import = NewImportService(repos.ImportTokenRepo, repos.ConfirmationRepo, deps.Jobs, deps.Cache)
	container.Export = NewExportService(repos.TransactionRepo, repos.ConfirmationRepo, container.Finance, fin.LedgerWindowLimit)

	return container
}
