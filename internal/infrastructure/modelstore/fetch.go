// Package modelstore держит локальный кеш весов модели.
package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"vehicle-inspector/pkg/log"
)

const progressStep = 10 << 20

// Fetcher скачивает веса модели, если их ещё нет на диске.
type Fetcher struct {
	Client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{Client: http.DefaultClient}
}

// Ensure возвращает путь к весам, скачивая их из url при отсутствии файла.
func (f *Fetcher) Ensure(ctx context.Context, url, path string) (string, error) {
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return path, nil
	}
	if url == "" {
		return "", fmt.Errorf("model file not found: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}

	log.Info(log.Fields{"url": url, "path": path}, "downloading model")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download model: unexpected status %s", resp.Status)
	}

	// Пишем во временный файл, чтобы оборванная загрузка не выглядела готовыми весами.
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, &progressReader{r: resp.Body, total: resp.ContentLength})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write model: %w", err)
	}
	if written == 0 {
		return "", errors.New("download model: empty response body")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move model into place: %w", err)
	}

	log.Info(log.Fields{"path": path, "bytes": written}, "model downloaded")
	return path, nil
}

// progressReader пишет в лог каждые progressStep байт.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	reported int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.read-p.reported >= progressStep {
		p.reported = p.read
		log.Debug(log.Fields{"read": p.read, "total": p.total}, "model download progress")
	}
	return n, err
}
