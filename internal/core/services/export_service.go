package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

var (
	transactionCSVHeader  = []string{"Date", "Confirmation", "Type", "Category", "Description", "Amount", "Status", "Payment Method"}
	confirmationCSVHeader = []string{"Code", "Client", "Arrival", "Departure", "Revenue", "Received", "Pending", "Expenses", "Profit", "Status"}
)

type exportService struct {
	BaseService
	transactionRepo  portsrepo.TransactionReader
	confirmationRepo portsrepo.ConfirmationReader
	finance          portssvc.FinanceSvcFacade
	rowLimit         int
}

// NewExportService creates the CSV export service. rowLimit caps exported transactions.
func NewExportService(transactionRepo portsrepo.TransactionReader, confirmationRepo portsrepo.ConfirmationReader, finance portssvc.FinanceSvcFacade, rowLimit int) portssvc.ExportSvc {
	return &exportService{
		transactionRepo:  transactionRepo,
		confirmationRepo: confirmationRepo,
		finance:          finance,
		rowLimit:         rowLimit,
	}
}

var _ portssvc.ExportSvc = (*exportService)(nil)

func (s *exportService) ExportTransactionsCSV(ctx context.Context, actor domain.Actor, params dto.ListTransactionsParams, w io.Writer) error {
	if err := s.Authorize(ctx, actor, domain.PermExport); err != nil {
		return err
	}
	params.NextToken = ""
	filter, err := transactionFilterFromParams(params)
	if err != nil {
		return err
	}
	filter.Limit = s.rowLimit

	txns, err := s.transactionRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for export")
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	codes, err := s.confirmationCodes(ctx, txns)
	if err != nil {
		return err
	}

	out := newQuotedCSV(w)
	out.row(transactionCSVHeader...)
	for _, t := range txns {
		code := ""
		if t.ConfirmationID != nil {
			code = codes[*t.ConfirmationID]
		}
		out.row(
			domain.FormatDisplayDate(t.Date),
			code,
			string(t.Kind),
			string(t.Category),
			t.Description,
			t.Amount.StringFixed(2)+" "+string(t.Currency),
			string(t.Status),
			t.PaymentMethod,
		)
	}
	return out.flush()
}

func (s *exportService) confirmationCodes(ctx context.Context, txns []domain.Transaction) (map[string]string, error) {
	codes := make(map[string]string)
	linked := false
	for _, t := range txns {
		if t.ConfirmationID != nil {
			linked = true
			break
		}
	}
	if !linked {
		return codes, nil
	}
	confirmations, err := s.confirmationRepo.ListConfirmations(ctx, domain.ConfirmationFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to load confirmations for export")
		return nil, fmt.Errorf("failed to load confirmations: %w", err)
	}
	for _, c := range confirmations {
		codes[c.ID] = c.ConfirmationCode
	}
	return codes, nil
}

func (s *exportService) ExportConfirmationsCSV(ctx context.Context, actor domain.Actor, params dto.LedgerParams, w io.Writer) error {
	if err := s.Authorize(ctx, actor, domain.PermExport); err != nil {
		return err
	}
	ledger, err := s.finance.GetLedger(ctx, actor, params)
	if err != nil {
		return err
	}

	out := newQuotedCSV(w)
	out.row(confirmationCSVHeader...)
	for _, r := range ledger.Rows {
		out.row(
			r.ConfirmationCode,
			r.MainClientName,
			r.ArrivalDate,
			r.DepartureDate,
			r.RevenueExpected.StringFixed(2),
			r.Received.StringFixed(2),
			r.Pending.StringFixed(2),
			r.Expenses.StringFixed(2),
			r.Profit.StringFixed(2),
			string(r.Status),
		)
	}
	return out.flush()
}

// quotedCSV writes every field double-quoted with inner quotes doubled and
// "\n" line endings. encoding/csv only quotes when a field needs it.
type quotedCSV struct {
	w   *bufio.Writer
	err error
}

func newQuotedCSV(w io.Writer) *quotedCSV {
	return &quotedCSV{w: bufio.NewWriter(w)}
}

func (q *quotedCSV) row(fields ...string) {
	if q.err != nil {
		return
	}
	for i, f := range fields {
		if i > 0 {
			q.w.WriteByte(',')
		}
		q.w.WriteByte('"')
		q.w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		q.w.WriteByte('"')
	}
	_, q.err = q.w.WriteString("\n")
}

func (q *quotedCSV) flush() error {
	if q.err != nil {
		return fmt.Errorf("failed to write csv: %w", q.err)
	}
	if err := q.w.Flush(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
