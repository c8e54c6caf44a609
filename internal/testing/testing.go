// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/spx/internal/models"
)

// MockPlaylistService is a test double for services.PlaylistService
type MockPlaylistService struct {
	Info       *models.PlaylistInfo
	Tracks     models.TrackList
	InfoErr    error
	FetchErr   error
	FetchCalls int
}

func (m *MockPlaylistService) PlaylistInfo(ctx context.Context, playlistID string) (*models.PlaylistInfo, error) {
	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	if m.Info == nil {
		return &models.PlaylistInfo{ID: playlistID, Name: "mock playlist", TotalTracks: len(m.Tracks)}, nil
	}
	return m.Info, nil
}

func (m *MockPlaylistService) FetchPlaylist(ctx context.Context, playlistID string) (models.TrackList, error) {
	m.FetchCalls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Tracks, nil
}

func (m *MockPlaylistService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockResponse is one canned reply of a [MockRoundTripper]
type MockResponse struct {
	Status  int
	Body    string
	Headers map[string]string
	Err     error
}

// MockRoundTripper replays responses in order, repeating the last one once exhausted
type MockRoundTripper struct {
	mu        sync.Mutex
	responses []MockResponse
	Requests  []*http.Request
}

func NewMockRoundTripper(responses ...MockResponse) *MockRoundTripper {
	return &MockRoundTripper{responses: responses}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := min(len(m.Requests), len(m.responses)-1)
	m.Requests = append(m.Requests, req)
	r := m.responses[i]
	if r.Err != nil {
		return nil, r.Err
	}

	header := http.Header{}
	for k, v := range r.Headers {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode: r.Status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(r.Body)),
		Request:    req,
	}, nil
}

// Calls returns how many requests have been made
func (m *MockRoundTripper) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
