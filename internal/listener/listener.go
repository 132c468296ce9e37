package listener

import (
	"context"
	"fmt"
	"time"

	"fabdesk/internal/config"
	"fabdesk/internal/intake"
	"fabdesk/internal/pipeline"
	"fabdesk/internal/storage"
)

// Service polls the orders mailbox and runs every new message through
// the invoice pipeline. With MAIL_AUTO_IMPORT set, unblocked invoices
// are persisted as they arrive; otherwise the cycle only reports.
type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	connector, err := intake.NewIMAPConnector(s.cfg)
	if err != nil {
		return err
	}

	fetchService := intake.NewFetchService(s.db, s.cfg.RawMailDir, connector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailLabel, s.cfg.MailFetchMax)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessingService(s.db)
	processed, reports, err := processor.ProcessMailPending(ctx, s.cfg.MailBatch, s.cfg.MailAutoImport)
	if err != nil {
		return err
	}

	imported := 0
	blocked := 0
	for _, report := range reports {
		imported += report.Imported
		blocked += report.Blocked
		if report.CatalogErr != nil {
			fmt.Printf("listener: %v\n", report.CatalogErr)
		}
		if report.DuplicateCheckErr != nil {
			fmt.Printf("listener: %v\n", report.DuplicateCheckErr)
		}
	}

	fmt.Printf("listener cycle done fetched=%d stored=%d processed=%d imported=%d blocked=%d\n",
		fetchResult.Fetched, fetchResult.Stored, processed, imported, blocked)
	return nil
}
