package gsuite

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// Drive uploads artifacts to Google Drive. An empty folderID on Upload
// falls back to the configured parent folder; both empty lands the file in
// the service account's root.
type Drive struct {
	svc              *drive.Service
	fallbackFolderID string
}

// Upload stores the local file under name and returns its web view link.
func (d *Drive) Upload(ctx context.Context, localPath, name, mimeType, folderID string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	meta := &drive.File{Name: name}
	if folderID == "" {
		folderID = d.fallbackFolderID
	}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	created, err := d.svc.Files.
		Create(meta).
		Media(f, googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive upload %s: %w", name, err)
	}
	return created.WebViewLink, nil
}
