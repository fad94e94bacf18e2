package models

import "time"

type SessionResponse struct {
	ID        string     `json:"id"`
	Phase     string     `json:"phase"`
	FileName  string     `json:"file_name,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
	Report    *Report    `json:"report,omitempty"`
	Error     *string    `json:"error,omitempty"`
}

type UploadResponse struct {
	SessionID  string `json:"session_id"`
	Phase      string `json:"phase"`
	Generation uint64 `json:"generation"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	PageCount  *int   `json:"page_count,omitempty"`
}
