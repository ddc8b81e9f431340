package dto

// ArtifactRef points at a transport-held file attached to an inbound message.
type ArtifactRef struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

// InboundEvent is the transport-agnostic shape of one inbound message,
// published on the event bus by the poller and consumed by the dispatcher.
type InboundEvent struct {
	UpdateID  int          `json:"update_id"`
	Identity  int64        `json:"identity"`
	ChatID    int64        `json:"chat_id"`
	ThreadID  int          `json:"thread_id"`
	MessageID int          `json:"message_id"`
	Username  string       `json:"username"`
	FullName  string       `json:"full_name"`
	Text      string       `json:"text"`
	Command   string       `json:"command"`
	Document  *ArtifactRef `json:"document,omitempty"`
	Photo     *ArtifactRef `json:"photo,omitempty"`
	IsGroup   bool         `json:"is_group"`
}

// HasArtifact reports whether the event carries a document or photo.
func (e *InboundEvent) HasArtifact() bool {
	return e.Document != nil || e.Photo != nil
}
