package domain

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DownloadStatus represents the current status of a recorded download attempt
type DownloadStatus string

const (
	StatusProcessing DownloadStatus = "processing"
	StatusCompleted  DownloadStatus = "completed"
	StatusFailed     DownloadStatus = "failed"
	StatusCancelled  DownloadStatus = "cancelled"
)

// DownloadMode represents what is fetched for a URL
type DownloadMode string

const (
	ModeVideo DownloadMode = "video" // best video under the height bound, merged with best audio
	ModeAudio DownloadMode = "audio" // best audio, transcoded to a compressed format
)

// Download is the history record of one download attempt
type Download struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	URL          string         `json:"url" gorm:"not null;index"`
	Mode         DownloadMode   `json:"mode" gorm:"not null"`
	Quality      string         `json:"quality"`
	Status       DownloadStatus `json:"status" gorm:"not null;index"`
	Title        string         `json:"title,omitempty"`
	FilePath     string         `json:"file_path,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// NewDownload creates a record for an attempt that is about to start
func NewDownload(url string, mode DownloadMode, quality string) *Download {
	now := time.Now()
	return &Download{
		ID:        uuid.New().String(),
		URL:       url,
		Mode:      mode,
		Quality:   quality,
		Status:    StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
		StartedAt: &now,
	}
}

// MarkCompleted marks the download as completed
func (d *Download) MarkCompleted(title, filePath string) {
	d.Status = StatusCompleted
	d.Title = title
	d.FilePath = filePath
	d.ErrorMessage = ""
	now := time.Now()
	d.CompletedAt = &now
	d.UpdatedAt = now
}

// MarkFailed marks the download as failed, or cancelled when err is a context cancellation
func (d *Download) MarkFailed(err error) {
	d.Status = StatusFailed
	if errors.Is(err, context.Canceled) {
		d.Status = StatusCancelled
	}
	d.ErrorMessage = err.Error()
	d.UpdatedAt = time.Now()
}

// IsTerminal checks if the download is in a terminal state
func (d *Download) IsTerminal() bool {
	return d.Status != StatusProcessing
}

// ValidateMode checks if a download mode is valid
func ValidateMode(mode DownloadMode) bool {
	return mode == ModeVideo || mode == ModeAudio
}

// ValidateStatus checks if a status is valid
func ValidateStatus(status DownloadStatus) bool {
	switch status {
	case StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// PlaylistID extracts the list= query parameter from a YouTube URL.
// Returns "" when the URL carries no playlist.
func PlaylistID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return u.Query().Get("list")
}

// WatchURL builds the canonical watch URL for a video ID
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}
