package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Confirmation ConfirmationSvcFacade
	Transaction  TransactionSvcFacade
	Expense      ExpenseSvcFacade
	Holder       HolderSvcFacade
	Finance      FinanceSvcFacade
	ExchangeRate ExchangeRateSvcFacade
	Attachment   AttachmentSvcFacade
	Booking      BookingSvcFacade
	Import       ImportSvcFacade
	Profile      ProfileSvcFacade
	Export       ExportSvc
}
