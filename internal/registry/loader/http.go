package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxRegistrySize bounds remote payloads. vk.xml is a few megabytes.
const maxRegistrySize = 64 << 20

// fetch downloads a registry. The client carries the request timeout.
func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		return nil, fmt.Errorf("registry loader: http support disabled for %s", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("registry loader: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry loader: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry loader: GET %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRegistrySize+1))
	if err != nil {
		return nil, fmt.Errorf("registry loader: read %s: %w", url, err)
	}
	if len(data) > maxRegistrySize {
		return nil, fmt.Errorf("registry loader: %s exceeds %d bytes", url, maxRegistrySize)
	}
	return data, nil
}
