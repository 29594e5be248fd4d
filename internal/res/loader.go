package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Resource represents raw loaded bytes
type Resource struct {
	URL      string
	Data     []byte
	MimeType string
}

// Loader loads image artifacts (logo, seal, signature) from data URLs, local
// files, search paths or http(s), caching by reference.
type Loader struct {
	// Base URL or file path for resolving relative references
	BaseURL string

	cache     map[string]*Artifact
	cacheLock sync.RWMutex

	searchPaths []string

	client *http.Client
}

// NewLoader creates a new artifact loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL:     baseURL,
		cache:       make(map[string]*Artifact),
		searchPaths: []string{},
		client:      &http.Client{},
	}
}

// SetHTTPClient replaces the client used for remote artifacts
func (l *Loader) SetHTTPClient(c *http.Client) {
	l.client = c
}

// AddSearchPath adds a directory to search for local artifacts
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadArtifact loads and decodes the image referenced by ref
func (l *Loader) LoadArtifact(ctx context.Context, ref string) (*Artifact, error) {
	l.cacheLock.RLock()
	if a, ok := l.cache[ref]; ok {
		l.cacheLock.RUnlock()
		return a, nil
	}
	l.cacheLock.RUnlock()

	res, err := l.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	a, err := Decode(res)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", ref, err)
	}

	l.cacheLock.Lock()
	l.cache[ref] = a
	l.cacheLock.Unlock()

	return a, nil
}

// Load loads raw bytes from a data URL, file path or remote URL
func (l *Loader) Load(ctx context.Context, urlStr string) (*Resource, error) {
	if strings.TrimSpace(urlStr) == "" {
		return nil, errors.New("empty resource reference")
	}

	if strings.HasPrefix(urlStr, "data:") {
		return parseDataURL(urlStr)
	}

	resolvedURL, err := l.resolveURL(urlStr)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(resolvedURL, "http://") || strings.HasPrefix(resolvedURL, "https://") {
		return l.loadRemote(ctx, resolvedURL)
	}
	return l.loadLocal(resolvedURL)
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
// Examples:
//
//	data:image/png;base64,<base64>
//	data:image/svg+xml,%3Csvg...
func parseDataURL(u string) (*Resource, error) {
	s := strings.TrimPrefix(u, "data:")
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid data URL")
	}
	meta := parts[0]
	dataPart := parts[1]

	mime := "application/octet-stream"
	isBase64 := false
	if meta != "" {
		comps := strings.Split(meta, ";")
		if comps[0] != "" {
			mime = comps[0]
		}
		for _, c := range comps[1:] {
			if strings.EqualFold(strings.TrimSpace(c), "base64") {
				isBase64 = true
			}
		}
	}

	var data []byte
	if isBase64 {
		var err error
		data, err = base64.StdEncoding.DecodeString(dataPart)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
	} else if d, derr := url.QueryUnescape(dataPart); derr == nil {
		data = []byte(d)
	} else {
		data = []byte(dataPart)
	}

	return &Resource{URL: "data:" + mime, Data: data, MimeType: mime}, nil
}

// resolveURL resolves a reference relative to the base URL
func (l *Loader) resolveURL(urlStr string) (string, error) {
	if strings.HasPrefix(urlStr, "http://") || strings.HasPrefix(urlStr, "https://") {
		return urlStr, nil
	}

	if filepath.IsAbs(urlStr) {
		return urlStr, nil
	}

	if !strings.HasPrefix(l.BaseURL, "http://") && !strings.HasPrefix(l.BaseURL, "https://") {
		if l.BaseURL == "" {
			return urlStr, nil
		}
		return filepath.Join(filepath.Dir(l.BaseURL), urlStr), nil
	}

	baseURL, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}

	relURL, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	return baseURL.ResolveReference(relURL).String(), nil
}

// loadRemote loads a resource from a remote URL
func (l *Loader) loadRemote(ctx context.Context, urlStr string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "" || mime == "application/octet-stream" {
		mime = determineMimeType(urlStr)
	}

	return &Resource{URL: urlStr, Data: data, MimeType: mime}, nil
}

// loadLocal loads a resource from a local file
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.loadFromSearchPaths(path)
		}
		return nil, err
	}

	return &Resource{URL: path, Data: data, MimeType: determineMimeType(path)}, nil
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	baseFilename := filepath.Base(filename)

	for _, searchPath := range l.searchPaths {
		path := filepath.Join(searchPath, baseFilename)

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		return &Resource{URL: path, Data: data, MimeType: determineMimeType(path)}, nil
	}

	return nil, fmt.Errorf("resource not found: %s", filename)
}

// determineMimeType determines the MIME type of a file from its extension
func determineMimeType(path string) string {
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		path = u.Path
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// GetReader returns a reader for a resource
func (r *Resource) GetReader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}
