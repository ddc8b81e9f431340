package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"hr-intake-bot/internal/gateway"
	"hr-intake-bot/internal/model"
	"hr-intake-bot/pkg/events"
)

// fakeRuleSource serves canned rows, optionally failing, and counts fetches.
type fakeRuleSource struct {
	mu      sync.Mutex
	rows    [][]string
	err     error
	fetches int
}

func (f *fakeRuleSource) FetchRows(ctx context.Context, tab string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeRuleSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// fakeSink records appended rows per tab.
type fakeSink struct {
	mu   sync.Mutex
	err  error
	rows map[string][][]interface{}
}

func newFakeSink() *fakeSink {
	return &fakeSink{rows: make(map[string][][]interface{})}
}

func (f *fakeSink) Append(ctx context.Context, tab string, row []interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows[tab] = append(f.rows[tab], row)
	return nil
}

func (f *fakeSink) appended(tab string) [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[tab]
}

// fakeFetcher writes a marker file at the destination path.
type fakeFetcher struct {
	err       error
	downloads []string
}

func (f *fakeFetcher) Download(ctx context.Context, fileID, destPath string) error {
	if f.err != nil {
		return f.err
	}
	f.downloads = append(f.downloads, fileID)
	return os.WriteFile(destPath, []byte("artifact:"+fileID), 0o644)
}

// fakeBlob pretends to upload and remembers what it saw.
type fakeBlob struct {
	err     error
	uploads []blobUpload
}

type blobUpload struct {
	name     string
	mimeType string
	folderID string
}

func (f *fakeBlob) Upload(ctx context.Context, localPath, name, mimeType, folderID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, blobUpload{name: name, mimeType: mimeType, folderID: folderID})
	return "https://drive.test/view/" + name, nil
}

// fakeReplier captures every reply per identity.
type fakeReplier struct {
	mu      sync.Mutex
	replies map[int64][]string
}

func newFakeReplier() *fakeReplier {
	return &fakeReplier{replies: make(map[int64][]string)}
}

func (f *fakeReplier) Reply(identity int64, text string, opts ...gateway.ReplyOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[identity] = append(f.replies[identity], text)
	return nil
}

func (f *fakeReplier) sent(identity int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replies[identity]
}

func (f *fakeReplier) last(identity int64) string {
	msgs := f.sent(identity)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

// fakeMail implements mailer.IEmailService.
type fakeMail struct {
	enabled bool
	err     error
	sent    []*model.CandidateRecord
}

func (f *fakeMail) Enabled() bool { return f.enabled }

func (f *fakeMail) SendCandidate(record *model.CandidateRecord, attachmentPath string) error {
	if !f.enabled {
		return nil
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, record)
	return nil
}

// fakePublisher implements EventPublisher.
type fakePublisher struct {
	err       error
	published []events.Event
}

func (f *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

// fakeDispatch records dispatched records without touching any sink.
type fakeDispatch struct {
	mu      sync.Mutex
	records []*model.CandidateRecord
	results []SinkResult
}

func (f *fakeDispatch) Dispatch(ctx context.Context, record *model.CandidateRecord, attachmentPath string) []SinkResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return f.results
}

func (f *fakeDispatch) dispatched() []*model.CandidateRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records
}

var errBoom = errors.New("boom")

// catalogRows builds a header plus the given rule rows.
func catalogRows(rows ...[]string) [][]string {
	out := [][]string{{"Category", "Keywords", "FolderID", "Pattern"}}
	return append(out, rows...)
}

func fmtRow(row []interface{}) string {
	return fmt.Sprint(row...)
}
