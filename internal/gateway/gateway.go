// Package gateway declares the narrow interfaces the services use to reach
// external collaborators. Every outbound call the bot makes goes through one
// of these, so tests substitute fakes without touching the real backends.
package gateway

import "context"

// RuleSource fetches raw rows from the routing-catalog sheet tab.
// The first row is a header naming columns.
type RuleSource interface {
	FetchRows(ctx context.Context, tab string) ([][]string, error)
}

// TabularSink appends one row to an append-only sheet tab. No guarantee
// beyond single-row append.
type TabularSink interface {
	Append(ctx context.Context, tab string, row []interface{}) error
}

// BlobStore uploads a local file to durable storage and returns a viewable
// link. An empty folderID means the store's configured default location.
type BlobStore interface {
	Upload(ctx context.Context, localPath, name, mimeType, folderID string) (link string, err error)
}

// ArtifactFetcher pulls a transport-held file down to a local path.
type ArtifactFetcher interface {
	Download(ctx context.Context, fileID, destPath string) error
}

// URLButton is a labelled link rendered under a reply.
type URLButton struct {
	Label string
	URL   string
}

// ReplyOptions shape how a reply is presented.
type ReplyOptions struct {
	MainMenu bool
	Buttons  []URLButton
}

type ReplyOption func(*ReplyOptions)

// WithMainMenu attaches the persistent menu keyboard to the reply.
func WithMainMenu() ReplyOption {
	return func(o *ReplyOptions) { o.MainMenu = true }
}

// WithURLButtons attaches inline link buttons to the reply.
func WithURLButtons(buttons ...URLButton) ReplyOption {
	return func(o *ReplyOptions) { o.Buttons = buttons }
}

// Replier sends a text reply back to a user identity.
type Replier interface {
	Reply(identity int64, text string, opts ...ReplyOption) error
}
