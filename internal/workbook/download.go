package workbook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
)

// Download fetches a spreadsheet into a temporary file and returns its path.
// The file keeps the extension of the URL path so Open picks the right reader;
// the caller removes it when done.
func Download(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("bad url %q: %w", rawURL, err)
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	if ext == "" {
		ext = ".xlsx"
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("Failed to download %s: %w", rawURL, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP Error: status code %d", response.StatusCode)
	}

	tmpFile, err := os.CreateTemp("", "fare-ingest-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, response.Body); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("Failed to write downloaded file to temp location: %w", err)
	}

	return tmpFile.Name(), nil
}
