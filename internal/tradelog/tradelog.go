// Package tradelog keeps a daily JSON-lines journal of answered questions.
package tradelog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is one answered question.
type Entry struct {
	Time           string   `json:"time"`
	RequestID      string   `json:"request_id"`
	Question       string   `json:"question"`
	Intent         string   `json:"intent"`
	Tickers        []string `json:"tickers,omitempty"`
	Confidence     string   `json:"confidence"`
	Method         string   `json:"method"`
	Score          int      `json:"score"`
	Rating         string   `json:"rating"`
	StrategyStatus string   `json:"strategy_status"`
	Action         string   `json:"action,omitempty"`
	EntryPrice     float64  `json:"entry_price,omitempty"`
	TargetPrice    float64  `json:"target_price,omitempty"`
	StopLoss       float64  `json:"stop_loss,omitempty"`
	ElapsedMs      int64    `json:"elapsed_ms"`
}

// Journal appends entries under <dir>/decisions/<date>.txt.
type Journal struct {
	mu  sync.Mutex
	dir string
	loc *time.Location
	now func() time.Time
}

// New creates a journal rooted at dir. loc sets the day boundary; nil means
// local time.
func New(dir string, loc *time.Location) *Journal {
	if dir == "" {
		dir = "logs"
	}
	if loc == nil {
		loc = time.Local
	}
	return &Journal{dir: dir, loc: loc, now: time.Now}
}

func (j *Journal) path(t time.Time) string {
	return filepath.Join(j.dir, "decisions", t.In(j.loc).Format("2006-01-02")+".txt")
}

// Append stamps e with the current time and writes it as one line.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now().In(j.loc)
	e.Time = now.Format("2006-01-02 15:04:05")
	p := j.path(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files last modified more than retentionDays
// ago and removes the originals. Files that cannot be compressed are left
// in place.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().AddDate(0, 0, -retentionDays)

	j.mu.Lock()
	defer j.mu.Unlock()
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err == nil {
			_ = os.Remove(p)
		}
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
