package uploads

import "time"

// Upload is the stored metadata of one uploaded timesheet file.
type Upload struct {
	ID         string    `json:"id"`
	OrgID      string    `json:"org_id"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"-"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}
