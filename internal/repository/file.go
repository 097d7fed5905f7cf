// Package repository persists the working set as whole JSON documents on
// disk. Every save rewrites the full file; there is no partial write path,
// matching the single-writer model of the service.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pcctrack/pcc-tracker/internal/model"
)

const (
	recordsFile = "records.json"
	serialFile  = "serial.json"
	profileFile = "profile.json"
)

// FileRepository stores records, the serial counter and the business profile
// in a directory of JSON files.
type FileRepository struct {
	dir string
}

// NewFileRepository creates the storage directory if needed and returns a
// ready repository.
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileRepository{dir: dir}, nil
}

// DefaultProfile returns the placeholder shop identity used until the
// operator configures one.
func DefaultProfile() model.BusinessProfile {
	return model.BusinessProfile{
		ShopName: "PCC Track Pro",
		Address:  "Shop Address",
		Phone:    "01XXXXXXXXX",
	}
}

// Load reads the full persisted state. Absent files are not errors: they
// yield an empty record set, serial 0 and the default profile.
func (r *FileRepository) Load() ([]model.Record, int64, model.BusinessProfile, error) {
	records := []model.Record{}
	if err := r.readJSON(recordsFile, &records); err != nil {
		return nil, 0, model.BusinessProfile{}, fmt.Errorf("load records: %w", err)
	}

	var lastSerial int64
	if err := r.readJSON(serialFile, &lastSerial); err != nil {
		return nil, 0, model.BusinessProfile{}, fmt.Errorf("load serial: %w", err)
	}

	profile := DefaultProfile()
	if err := r.readJSON(profileFile, &profile); err != nil {
		return nil, 0, model.BusinessProfile{}, fmt.Errorf("load profile: %w", err)
	}

	return records, lastSerial, profile, nil
}

// SaveRecords rewrites the full record set.
func (r *FileRepository) SaveRecords(records []model.Record) error {
	return r.writeJSON(recordsFile, records)
}

// SaveLastSerial persists the serial counter.
func (r *FileRepository) SaveLastSerial(n int64) error {
	return r.writeJSON(serialFile, n)
}

// SaveProfile persists the business profile.
func (r *FileRepository) SaveProfile(p model.BusinessProfile) error {
	return r.writeJSON(profileFile, p)
}

func (r *FileRepository) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSON replaces the target file atomically so a crash mid-write never
// leaves a truncated document behind.
func (r *FileRepository) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(r.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
