package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kartlap/pkg/contracts/domain"
)

// HeatFileInfo describes a heat record found on disk
type HeatFileInfo struct {
	Ref     domain.HeatRef
	Path    string
	Size    int64
	ModTime time.Time
}

// Discovery finds heat records in a directory
type Discovery struct {
	dir string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(dir string) *Discovery {
	return &Discovery{dir: dir}
}

// FindHeatFiles returns every heat_<track>_<session>.json file with a known
// track and a valid session id, ordered by track and session. A missing
// directory yields no files.
func (d *Discovery) FindHeatFiles() ([]HeatFileInfo, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", d.dir, err)
	}

	var found []HeatFileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ref, ok := ParseHeatFileName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, HeatFileInfo{
			Ref:     ref,
			Path:    filepath.Join(d.dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	refs := make([]domain.HeatRef, len(found))
	byRef := make(map[domain.HeatRef]HeatFileInfo, len(found))
	for i, f := range found {
		refs[i] = f.Ref
		byRef[f.Ref] = f
	}
	domain.SortRefs(refs)
	for i, ref := range refs {
		found[i] = byRef[ref]
	}
	return found, nil
}

// ParseHeatFileName extracts the heat reference from a record file name.
func ParseHeatFileName(name string) (domain.HeatRef, bool) {
	if !strings.HasPrefix(name, "heat_") || !strings.HasSuffix(name, ".json") {
		return domain.HeatRef{}, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, "heat_"), ".json")
	trackName, sessionID, ok := strings.Cut(rest, "_")
	if !ok {
		return domain.HeatRef{}, false
	}
	track := domain.Track(trackName)
	if !track.Valid() || domain.ValidateSessionID(sessionID) != nil {
		return domain.HeatRef{}, false
	}
	return domain.HeatRef{Track: track, SessionID: sessionID}, true
}
