package service

import (
	"context"
	"fmt"

	"hr-intake-bot/internal/gateway"
	"hr-intake-bot/internal/model"
	"hr-intake-bot/internal/pkg/logger"
	"hr-intake-bot/internal/pkg/mailer"
	"hr-intake-bot/pkg/events"
)

// EventPublisher is the optional third sink; a nil publisher disables it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// SinkResult is the outcome of one sink for one record. Failures carry a
// user-facing message naming the sink; successes, no-ops and internal-only
// sinks carry none.
type SinkResult struct {
	Sink     string
	Err      error
	Internal bool
}

// UserMessage renders the failure for the end user, or "" when there is
// nothing the user needs to hear about.
func (r SinkResult) UserMessage() string {
	if r.Err == nil || r.Internal {
		return ""
	}
	return fmt.Sprintf("%s error: %v", r.Sink, r.Err)
}

type IDispatchService interface {
	// Dispatch fans the finalized record out to every sink. It never fails
	// as a whole: each sink's outcome is isolated, logged and returned so
	// the caller can surface failures individually.
	Dispatch(ctx context.Context, record *model.CandidateRecord, attachmentPath string) []SinkResult
}

type dispatchService struct {
	sink      gateway.TabularSink
	leadsTab  string
	mail      mailer.IEmailService
	publisher EventPublisher
	log       logger.ILogger
}

func NewDispatchService(sink gateway.TabularSink, leadsTab string, mail mailer.IEmailService, publisher EventPublisher, log logger.ILogger) IDispatchService {
	return &dispatchService{
		sink:      sink,
		leadsTab:  leadsTab,
		mail:      mail,
		publisher: publisher,
		log:       log,
	}
}

func (s *dispatchService) Dispatch(ctx context.Context, record *model.CandidateRecord, attachmentPath string) []SinkResult {
	results := []SinkResult{
		s.appendLead(ctx, record),
		s.notifyHR(record, attachmentPath),
	}
	if s.publisher != nil {
		results = append(results, s.publishEvent(ctx, record))
	}

	for _, r := range results {
		if r.Err != nil {
			s.log.Error("dispatch", "sink failed", map[string]interface{}{
				"sink":   r.Sink,
				"record": record.ID.String(),
				"error":  r.Err.Error(),
			})
		}
	}
	return results
}

func (s *dispatchService) appendLead(ctx context.Context, record *model.CandidateRecord) SinkResult {
	row := []interface{}{
		record.SubmittedAt.Format("2006-01-02 15:04:05 MST"),
		record.Fields.Name,
		record.Fields.Email,
		record.Fields.Phone,
		record.Fields.Position,
		record.Fields.Source,
		record.FileName,
		record.FileLink,
		record.Submitter,
	}
	if err := s.sink.Append(ctx, s.leadsTab, row); err != nil {
		return SinkResult{Sink: "Sheets", Err: err}
	}
	s.log.Info("dispatch", "lead row appended", map[string]interface{}{
		"record": record.ID.String(),
		"tab":    s.leadsTab,
	})
	return SinkResult{Sink: "Sheets"}
}

func (s *dispatchService) notifyHR(record *model.CandidateRecord, attachmentPath string) SinkResult {
	if !s.mail.Enabled() {
		// Incomplete SMTP settings: configured no-op, not a failure.
		return SinkResult{Sink: "Email"}
	}
	if err := s.mail.SendCandidate(record, attachmentPath); err != nil {
		return SinkResult{Sink: "Email", Err: err}
	}
	return SinkResult{Sink: "Email"}
}

func (s *dispatchService) publishEvent(ctx context.Context, record *model.CandidateRecord) SinkResult {
	if err := s.publisher.Publish(ctx, events.NewCandidateReceived(record)); err != nil {
		return SinkResult{Sink: "Events", Err: err, Internal: true}
	}
	return SinkResult{Sink: "Events", Internal: true}
}
