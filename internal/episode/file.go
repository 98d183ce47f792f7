package episode

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nuggets-cli/nuggets/internal/config"
	"github.com/nuggets-cli/nuggets/internal/nugget"
	"github.com/nuggets-cli/nuggets/internal/storage"
)

// FileStore keeps one JSON record per episode under a root directory.
type FileStore struct {
	root   string
	logger *slog.Logger

	mu    sync.Mutex
	paths map[string]string // episode id -> record path, filled by scans
}

// NewFileStore creates a store rooted at the analysis directory.
func NewFileStore(root string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		root:   root,
		logger: logger,
		paths:  make(map[string]string),
	}
}

// Root returns the directory the store scans.
func (s *FileStore) Root() string {
	return s.root
}

// errStopScan ends a walk early.
var errStopScan = errors.New("stop scan")

// scan visits every .json file under the root in lexical order. Records that
// fail to parse or validate are reported and skipped. I/O errors abort.
func (s *FileStore) scan(visit func(path string, ep *nugget.Episode) error) ([]ScanWarning, error) {
	var warnings []ScanWarning

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		ep, err := Decode(data)
		if err != nil {
			s.logger.Warn("skipping malformed episode record", "path", path, "error", err)
			warnings = append(warnings, ScanWarning{Path: path, Err: err.Error()})
			return nil
		}

		s.mu.Lock()
		s.paths[ep.ID] = path
		s.mu.Unlock()

		return visit(path, ep)
	})
	if errors.Is(err, errStopScan) {
		err = nil
	}
	if err != nil {
		return warnings, fmt.Errorf("scanning %s: %w", s.root, err)
	}
	return warnings, nil
}

// ListAll implements Store.
func (s *FileStore) ListAll() ([]nugget.Episode, []ScanWarning, error) {
	var episodes []nugget.Episode
	warnings, err := s.scan(func(_ string, ep *nugget.Episode) error {
		episodes = append(episodes, *ep)
		return nil
	})
	if err != nil {
		return nil, warnings, err
	}

	s.logger.Debug("scanned episode records", "root", s.root, "episodes", len(episodes), "skipped", len(warnings))
	return episodes, warnings, nil
}

// Get implements Store. Malformed records met on the way are skipped.
func (s *FileStore) Get(id string) (*nugget.Episode, error) {
	if path, ok := s.knownPath(id); ok {
		if data, err := os.ReadFile(path); err == nil {
			if ep, err := Decode(data); err == nil && ep.ID == id {
				return ep, nil
			}
		}
	}

	var found *nugget.Episode
	_, err := s.scan(func(_ string, ep *nugget.Episode) error {
		if ep.ID == id {
			found = ep
			return errStopScan
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrEpisodeNotFound, id)
	}
	return found, nil
}

// Save implements Store. An existing record is replaced in place; a new
// episode is written to analysis/{source}/{source_slug}/{date}-{external_id}.json
// and must not carry unknown nugget types.
func (s *FileStore) Save(ep *nugget.Episode) error {
	if err := ep.Validate(); err != nil {
		return fmt.Errorf("saving episode: %w", err)
	}

	path, ok := s.knownPath(ep.ID)
	if !ok {
		if _, err := s.Get(ep.ID); err == nil {
			path, ok = s.knownPath(ep.ID)
		} else if !errors.Is(err, ErrEpisodeNotFound) {
			return err
		}
	}
	if !ok {
		if err := ep.ValidateStrict(); err != nil {
			return fmt.Errorf("saving episode: %w", err)
		}
		path = s.newRecordPath(ep)
	}

	data, err := Encode(ep)
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing episode %s: %w", ep.ID, err)
	}

	s.mu.Lock()
	s.paths[ep.ID] = path
	s.mu.Unlock()

	s.logger.Debug("saved episode record", "id", ep.ID, "path", path)
	return nil
}

func (s *FileStore) knownPath(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, ok := s.paths[id]
	return path, ok
}

// newRecordPath derives the external id by stripping the
// {source_type}-{date}- prefix from the episode id when present.
func (s *FileStore) newRecordPath(ep *nugget.Episode) string {
	sourceType := string(ep.SourceTypeOrDefault())
	date := ""
	if ep.Date != "" {
		date = ep.DateKey()
	}

	externalID := ep.ID
	prefix := sourceType + "-"
	if date != "" {
		prefix += date + "-"
	}
	if rest, ok := strings.CutPrefix(ep.ID, prefix); ok && rest != "" {
		externalID = rest
	}

	return config.EpisodeRecordPath(s.root, sourceType, ep.SourceNameOrDefault(), date, externalID)
}
