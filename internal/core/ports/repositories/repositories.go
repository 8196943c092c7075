package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ConfirmationRepo ConfirmationRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	ExpenseRepo      ExpenseRepositoryFacade
	HolderRepo       HolderRepositoryFacade
	AttachmentRepo   AttachmentRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	ProfileRepo      ProfileRepositoryFacade
	SavedHotelRepo   SavedHotelRepositoryFacade
	ImportTokenRepo  ImportTokenRepository
}
