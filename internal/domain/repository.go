package domain

// DownloadRepository defines the interface for download history persistence
type DownloadRepository interface {
	// Create creates a new download
	Create(download *Download) error

	// Update updates an existing download
	Update(download *Download) error

	// Delete deletes a download by ID
	Delete(id string) error

	// FindByID finds a download by ID, returning ErrNotFound if absent
	FindByID(id string) (*Download, error)

	// FindByURL returns the most recent download for url in one of statuses, or nil
	FindByURL(url string, statuses []DownloadStatus) (*Download, error)

	// FindAll finds downloads matching filters, newest first. limit <= 0 means no limit.
	FindAll(filters DownloadFilter, limit int) ([]*Download, error)

	// Count returns the total number of downloads
	Count() (int64, error)

	// CountByStatus returns the number of downloads by status
	CountByStatus(status DownloadStatus) (int64, error)

	// GetStats returns download statistics
	GetStats() (*DownloadStats, error)
}

// DownloadFilter narrows FindAll. Empty fields match everything.
type DownloadFilter struct {
	Status DownloadStatus
	Mode   DownloadMode
}

// DownloadStats represents download statistics
type DownloadStats struct {
	Total      int64 `json:"total"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	Cancelled  int64 `json:"cancelled"`
}
