package catalog

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for an imported file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC().Truncate(time.Microsecond),
	}, nil
}

// Source is an imported file recorded in the catalog.
type Source struct {
	FileFingerprint
	Kind    string // "organisms" or "traits"
	Version int64  // catalog version the import produced
}

// Sources lists imported files, oldest first.
func (s *Store) Sources() ([]Source, error) {
	rows, err := s.db.Query(`SELECT path, kind, size, mod_time_us, version
		FROM catalog_sources ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var (
			src     Source
			modTime int64
		)
		if err := rows.Scan(&src.Path, &src.Kind, &src.Size, &modTime, &src.Version); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		src.ModTime = time.UnixMicro(modTime).UTC()
		out = append(out, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return out, nil
}

// Imported reports whether a file with the same fingerprint was already
// imported, so unchanged files can be skipped.
func (s *Store) Imported(fp FileFingerprint) (bool, error) {
	var n int64
	err := s.db.QueryRow(`SELECT count(*) FROM catalog_sources
		WHERE path = ? AND size = ? AND mod_time_us = ?`,
		fp.Path, fp.Size, fp.ModTime.UnixMicro()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query source fingerprint: %w", err)
	}
	return n > 0, nil
}
