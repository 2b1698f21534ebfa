package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/briarql/briarql/internal/dberrors"
)

const metadataFile = "metadata"

// Metadata is the persisted { root_id: integer } sidecar record of
// spec.md §6 that lets a tree be reopened against the correct root.
type Metadata struct {
	RootID int64 `json:"root_id"`
}

// LoadMetadata reads the metadata file, or reports ok=false if it does
// not yet exist (a brand new tree).
func LoadMetadata(dir string) (Metadata, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, false, nil
		}
		return Metadata{}, false, dberrors.Wrap(dberrors.IO, err, "read metadata in %s", dir)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, false, dberrors.Wrap(dberrors.NodeCorrupt, err, "metadata in %s is unreadable", dir)
	}
	return m, true, nil
}

// SaveMetadata writes the metadata file via the same temp-plus-rename
// durability primitive used for node files (spec.md §4.1's root-change
// protocol requires this write happen only after the new root node is
// durable, and the caller is responsible for that ordering).
func SaveMetadata(dir string, m Metadata) error {
	data, err := json.Marshal(m)
	if err != nil {
		return dberrors.Wrap(dberrors.IO, err, "marshal metadata in %s", dir)
	}
	tmp, err := os.CreateTemp(dir, metadataFile+".tmp-*")
	if err != nil {
		return dberrors.Wrap(dberrors.IO, err, "create temp metadata file in %s", dir)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return dberrors.Wrap(dberrors.IO, err, "write temp metadata file in %s", dir)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return dberrors.Wrap(dberrors.IO, err, "fsync temp metadata file in %s", dir)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return dberrors.Wrap(dberrors.IO, err, "close temp metadata file in %s", dir)
	}
	finalPath := filepath.Join(dir, metadataFile)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return dberrors.Wrap(dberrors.IO, err, "rename temp metadata file in %s", dir)
	}
	return syncDir(dir)
}
