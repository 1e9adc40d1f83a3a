// Package inbox imports practice sessions that the transcription pipeline
// drops into a directory as JSON or YAML files.
package inbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"highpitch/internal/filler"
	"highpitch/internal/logging"
	"highpitch/internal/store"
)

// namespace seeds content-derived session ids so re-importing a file
// overwrites its earlier import instead of duplicating it.
var namespace = uuid.MustParse("6f1c2a4e-8d3b-4f5a-9c7e-2b1d0e9f8a76")

// SessionFile is the on-disk format written by the transcriber.
type SessionFile struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	StartedAt time.Time `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	// FillerWordCount is the transcriber's total. When omitted the sum of
	// Words is used.
	FillerWordCount *int                      `json:"fillerWordCount,omitempty" yaml:"fillerWordCount,omitempty"`
	SPM             float64                   `json:"spm,omitempty" yaml:"spm,omitempty"`
	Words           []filler.FillerWordRecord `json:"words" yaml:"words"`
}

// Saver persists imported sessions.
type Saver interface {
	SaveSession(ctx context.Context, sess *store.Session) error
}

// Result is the outcome of importing one file.
type Result struct {
	Path    string
	Session *store.Session
	Err     error
}

// Importer parses session files and hands them to a Saver.
type Importer struct {
	saver       Saver
	concurrency int
}

// NewImporter creates an importer. saver may be nil to parse without saving.
func NewImporter(saver Saver) *Importer {
	return &Importer{saver: saver, concurrency: 4}
}

// Supported reports whether path has an importable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ParseFile reads a session file and converts it to a store session.
func ParseFile(path string) (*store.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(filepath.Base(path), data)
}

// Parse decodes data according to name's extension.
func Parse(name string, data []byte) (*store.Session, error) {
	var sf SessionFile
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, &sf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("unsupported session file %s", name)
	}

	for i, w := range sf.Words {
		if strings.TrimSpace(w.Word) == "" {
			return nil, fmt.Errorf("parse %s: word %d is empty", name, i)
		}
	}

	sess := &store.Session{
		ID:        sf.ID,
		Title:     sf.Title,
		StartedAt: sf.StartedAt,
		SPM:       sf.SPM,
		Source:    name,
		Words:     sf.Words,
	}
	if sf.FillerWordCount != nil {
		sess.TotalFillers = *sf.FillerWordCount
	} else {
		sess.TotalFillers = filler.TotalCount(sf.Words)
	}
	if sess.ID == "" {
		sess.ID = uuid.NewSHA1(namespace, append([]byte(name+"\x00"), data...)).String()
	}
	if sess.Title == "" {
		sess.Title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return sess, nil
}

// ImportFile parses path and saves the session.
func (im *Importer) ImportFile(ctx context.Context, path string) (*store.Session, error) {
	sess, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	if im.saver != nil {
		if err := im.saver.SaveSession(ctx, sess); err != nil {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}
	}
	logging.Inbox("imported %s as %s (%d words)", path, sess.ID, len(sess.Words))
	return sess, nil
}

// ImportDir imports every supported file in dir concurrently. Per-file
// failures are reported in the results; the error is only for failures
// that stop the whole import.
func (im *Importer) ImportDir(ctx context.Context, dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	var (
		mu      sync.Mutex
		results = make([]Result, 0, len(paths))
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(im.concurrency)
	for _, p := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			sess, err := im.ImportFile(egCtx, p)
			if err != nil {
				logging.InboxWarn("import %s failed: %v", p, err)
			}
			mu.Lock()
			results = append(results, Result{Path: p, Session: sess, Err: err})
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}
