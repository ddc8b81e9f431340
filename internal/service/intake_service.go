package service

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hr-intake-bot/internal/constant"
	"hr-intake-bot/internal/dto"
	"hr-intake-bot/internal/gateway"
	"hr-intake-bot/internal/model"
	"hr-intake-bot/internal/pkg/logger"
	"hr-intake-bot/internal/repository/memory"
	"hr-intake-bot/pkg/utils"

	"github.com/google/uuid"
)

// IIntakeService drives the CV intake conversation for one identity at a
// time. The event dispatcher guarantees per-identity ordering, so methods
// here never race for the same session.
type IIntakeService interface {
	// Start opens a fresh session, replacing any existing one for the identity.
	Start(ctx context.Context, ev *dto.InboundEvent) error
	// HandleText feeds one text answer into the active session. It reports
	// false when no session is active so the caller can route elsewhere.
	HandleText(ctx context.Context, ev *dto.InboundEvent) (bool, error)
	// HandleArtifact accepts a document or photo. Outside an active session
	// it still runs as an implicit out-of-flow submission with whatever
	// fields exist (possibly none).
	HandleArtifact(ctx context.Context, ev *dto.InboundEvent) error
	// Cancel discards the identity's session, if any.
	Cancel(ctx context.Context, ev *dto.InboundEvent) error
	// InFlow reports whether the identity has a non-terminal session.
	InFlow(identity int64) bool
}

type intakeService struct {
	sessions   *memory.SessionRepository
	classifier IClassifierService
	fetcher    gateway.ArtifactFetcher
	blob       gateway.BlobStore
	dispatch   IDispatchService
	replier    gateway.Replier
	log        logger.ILogger

	tempDir        string
	fallbackFolder string
	now            func() time.Time
}

func NewIntakeService(
	sessions *memory.SessionRepository,
	classifier IClassifierService,
	fetcher gateway.ArtifactFetcher,
	blob gateway.BlobStore,
	dispatch IDispatchService,
	replier gateway.Replier,
	log logger.ILogger,
	tempDir string,
	fallbackFolder string,
	now func() time.Time,
) IIntakeService {
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "hr-intake-bot")
	}
	if now == nil {
		now = time.Now
	}
	return &intakeService{
		sessions:       sessions,
		classifier:     classifier,
		fetcher:        fetcher,
		blob:           blob,
		dispatch:       dispatch,
		replier:        replier,
		log:            log,
		tempDir:        tempDir,
		fallbackFolder: fallbackFolder,
		now:            now,
	}
}

func (s *intakeService) Start(ctx context.Context, ev *dto.InboundEvent) error {
	// Last-writer-wins: a new entry replaces any existing session.
	session := &model.Session{
		Identity:  ev.Identity,
		Username:  ev.Username,
		FullName:  ev.FullName,
		State:     model.StateName,
		StartedAt: s.now(),
	}
	s.sessions.Save(session)
	s.log.Info("intake", "session started", map[string]interface{}{
		"identity": ev.Identity,
	})
	return s.replier.Reply(ev.Identity, constant.MsgAskName)
}

func (s *intakeService) HandleText(ctx context.Context, ev *dto.InboundEvent) (bool, error) {
	session, found := s.sessions.Get(ev.Identity)
	if !found || session.State.Terminal() {
		return false, nil
	}

	if session.State == model.StateAwaitFile {
		// Text while a file is expected: re-prompt, keep position.
		return true, s.replier.Reply(ev.Identity, constant.MsgAskFile)
	}

	next, reply, ok := Advance(session.State, &session.Fields, strings.TrimSpace(ev.Text))
	if !ok {
		return false, nil
	}
	session.State = next
	s.sessions.Save(session)
	return true, s.replier.Reply(ev.Identity, reply)
}

func (s *intakeService) Cancel(ctx context.Context, ev *dto.InboundEvent) error {
	s.sessions.Delete(ev.Identity)
	return s.replier.Reply(ev.Identity, constant.MsgCancelled, gateway.WithMainMenu())
}

func (s *intakeService) InFlow(identity int64) bool {
	session, found := s.sessions.Get(identity)
	return found && !session.State.Terminal()
}

func (s *intakeService) HandleArtifact(ctx context.Context, ev *dto.InboundEvent) error {
	// Out-of-flow submissions are accepted deliberately: whatever fields the
	// session holds (none, for a bare file) travel with the record.
	var fields model.CandidateFields
	if session, found := s.sessions.Get(ev.Identity); found {
		fields = session.Fields
	}

	fileName, fileID, mimeType := artifactMeta(ev)
	if fileID == "" {
		return s.replier.Reply(ev.Identity, constant.MsgAskFile)
	}

	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	localPath := filepath.Join(s.tempDir, fmt.Sprintf("%d_%s", ev.MessageID, fileName))

	if err := s.fetcher.Download(ctx, fileID, localPath); err != nil {
		s.log.Error("intake", "artifact download failed", map[string]interface{}{
			"identity": ev.Identity,
			"file":     fileName,
			"error":    err.Error(),
		})
		s.sessions.Delete(ev.Identity)
		return s.replier.Reply(ev.Identity, constant.MsgGenericErr, gateway.WithMainMenu())
	}

	matchText := ClassificationText(fields.Position, fields.Source, fileName)
	folderID, category := s.classifier.Classify(ctx, matchText)
	s.log.Info("intake", "category detected", map[string]interface{}{
		"identity": ev.Identity,
		"text":     matchText,
		"category": category,
		"folder":   folderID,
	})
	if folderID == "" {
		folderID = s.fallbackFolder
	}

	link, err := s.blob.Upload(ctx, localPath, fileName, mimeType, folderID)
	if err != nil {
		// Fatal to this session only: inform the user, drop the local copy,
		// end without a log append.
		s.log.Error("intake", "upload failed", map[string]interface{}{
			"identity": ev.Identity,
			"file":     fileName,
			"error":    err.Error(),
		})
		s.removeTemp(localPath)
		s.sessions.Delete(ev.Identity)
		return s.replier.Reply(ev.Identity, fmt.Sprintf("Drive error: %v", err), gateway.WithMainMenu())
	}

	record := &model.CandidateRecord{
		ID:          uuid.New(),
		SubmittedAt: s.now().UTC(),
		Fields:      fields,
		FileName:    fileName,
		FileLink:    link,
		Category:    category,
		Submitter:   model.SubmitterHandle(ev.Identity, ev.Username),
	}

	results := s.dispatch.Dispatch(ctx, record, localPath)
	s.removeTemp(localPath)
	s.sessions.Delete(ev.Identity)

	for _, r := range results {
		if msg := r.UserMessage(); msg != "" {
			if err := s.replier.Reply(ev.Identity, msg); err != nil {
				s.log.Warn("intake", "failed to report sink error", map[string]interface{}{
					"identity": ev.Identity,
					"error":    err.Error(),
				})
			}
		}
	}
	return s.replier.Reply(ev.Identity, constant.MsgThankYou, gateway.WithMainMenu())
}

func (s *intakeService) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("intake", "could not delete temp file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

// artifactMeta resolves the sanitized filename, transport file id and mime
// type for the event's attachment. Photos carry no name, so one is
// synthesized from the message id.
func artifactMeta(ev *dto.InboundEvent) (name, fileID, mimeType string) {
	switch {
	case ev.Document != nil:
		name = utils.SafeFileName(ev.Document.FileName)
		fileID = ev.Document.FileID
		mimeType = ev.Document.MimeType
		if mimeType == "" {
			mimeType = mime.TypeByExtension(filepath.Ext(name))
		}
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
	case ev.Photo != nil:
		name = fmt.Sprintf("photo_%d.jpg", ev.MessageID)
		fileID = ev.Photo.FileID
		mimeType = "image/jpeg"
	}
	return name, fileID, mimeType
}
