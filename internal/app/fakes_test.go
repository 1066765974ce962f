package app

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/downtube-go/internal/domain"
)

// fakeExtractor writes an empty file per URL so the transcode step has something to remove
type fakeExtractor struct {
	mu       sync.Mutex
	requests []domain.MediaRequest
	failures map[string]error
	// playlistItems is how many files a playlist-mode request delivers
	playlistItems int
	onExtract     func(req domain.MediaRequest)
}

func (f *fakeExtractor) Extract(ctx context.Context, req domain.MediaRequest) ([]domain.Media, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.onExtract != nil {
		f.onExtract(req)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.failures[req.URL]; ok {
		return nil, err
	}

	n := 1
	if req.Playlist && f.playlistItems > 0 {
		n = f.playlistItems
	}

	ext := ".mp4"
	if req.AudioOnly {
		ext = ".wav"
	}

	var media []domain.Media
	for i := 0; i < n; i++ {
		title := titleFor(req.URL)
		if n > 1 {
			title += " " + string(rune('A'+i))
		}
		path := filepath.Join(req.OutputDir, title+ext)
		if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
			return nil, err
		}
		media = append(media, domain.Media{Title: title, FilePath: path})
	}
	return media, nil
}

func (f *fakeExtractor) urls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	urls := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		urls = append(urls, r.URL)
	}
	return urls
}

func titleFor(url string) string {
	if i := strings.LastIndex(url, "v="); i >= 0 {
		return "video-" + url[i+2:]
	}
	return "video"
}

// fakeTranscoder copies the input to the output path
type fakeTranscoder struct {
	calls [][2]string
	err   error
}

func (f *fakeTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	f.calls = append(f.calls, [2]string{inputPath, outputPath})
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

type fakeResolver struct {
	entries []domain.PlaylistEntry
	err     error
	ids     []string
}

func (f *fakeResolver) Resolve(ctx context.Context, playlistID string) ([]domain.PlaylistEntry, error) {
	f.ids = append(f.ids, playlistID)
	return f.entries, f.err
}

type fakeNotifier struct {
	failed   []string
	finished [][2]int
}

func (f *fakeNotifier) NotifyDownloadFailed(url string, err error) {
	f.failed = append(f.failed, url)
}

func (f *fakeNotifier) NotifyRunFinished(downloaded, failed int) {
	f.finished = append(f.finished, [2]int{downloaded, failed})
}

// memoryRepo implements domain.DownloadRepository in memory
type memoryRepo struct {
	mu        sync.Mutex
	downloads map[string]*domain.Download
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{downloads: make(map[string]*domain.Download)}
}

func (m *memoryRepo) Create(download *domain.Download) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *download
	m.downloads[download.ID] = &copied
	return nil
}

func (m *memoryRepo) Update(download *domain.Download) error {
	return m.Create(download)
}

func (m *memoryRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.downloads[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.downloads, id)
	return nil
}

func (m *memoryRepo) FindByID(id string) (*domain.Download, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.downloads[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memoryRepo) FindByURL(url string, statuses []domain.DownloadStatus) (*domain.Download, error) {
	all, _ := m.FindAll(domain.DownloadFilter{}, 0)
	for _, d := range all {
		if d.URL != url {
			continue
		}
		if len(statuses) == 0 {
			return d, nil
		}
		for _, s := range statuses {
			if d.Status == s {
				return d, nil
			}
		}
	}
	return nil, nil
}

func (m *memoryRepo) FindAll(filters domain.DownloadFilter, limit int) ([]*domain.Download, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Download
	for _, d := range m.downloads {
		if filters.Status != "" && d.Status != filters.Status {
			continue
		}
		if filters.Mode != "" && d.Mode != filters.Mode {
			continue
		}
		copied := *d
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) Count() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.downloads)), nil
}

func (m *memoryRepo) CountByStatus(status domain.DownloadStatus) (int64, error) {
	all, _ := m.FindAll(domain.DownloadFilter{Status: status}, 0)
	return int64(len(all)), nil
}

func (m *memoryRepo) GetStats() (*domain.DownloadStats, error) {
	stats := &domain.DownloadStats{}
	all, _ := m.FindAll(domain.DownloadFilter{}, 0)
	stats.Total = int64(len(all))
	for _, d := range all {
		switch d.Status {
		case domain.StatusProcessing:
			stats.Processing++
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusFailed:
			stats.Failed++
		case domain.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}
