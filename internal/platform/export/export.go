// Package export writes and reads fixture collections as standalone
// documents, one per collection.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ehr/fixtures/internal/domain/fixtures"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Collection names double as document file names.
const (
	CollectionUsers        = "users"
	CollectionMedicalStaff = "medicalStaff"
	CollectionPatients     = "patients"
)

// Collections lists every collection in write order.
var Collections = []string{CollectionUsers, CollectionMedicalStaff, CollectionPatients}

var (
	ErrUnknownFormat     = errors.New("unknown document format")
	ErrUnknownCollection = errors.New("unknown collection")
)

// ValidFormat reports whether format names a supported document format.
func ValidFormat(format string) bool {
	return format == FormatJSON || format == FormatYAML
}

// FileName returns the document file name for collection in format.
func FileName(collection, format string) string {
	return collection + "." + format
}

// Collection returns the entities of the named collection in ds.
func Collection(ds *fixtures.Dataset, name string) (interface{}, error) {
	switch name {
	case CollectionUsers:
		return ds.Users, nil
	case CollectionMedicalStaff:
		return ds.MedicalStaff, nil
	case CollectionPatients:
		return ds.Patients, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// Encode writes v to w as an indented document.
func Encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Decode reads one document from r into v.
func Decode(r io.Reader, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		return json.NewDecoder(r).Decode(v)
	case FormatYAML:
		return yaml.NewDecoder(r).Decode(v)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteDataset writes each collection of ds to its own document in dir,
// creating dir if needed, and returns the paths written.
func WriteDataset(dir, format string, ds *fixtures.Dataset) ([]string, error) {
	if !ValidFormat(format) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	paths := make([]string, 0, len(Collections))
	for _, name := range Collections {
		data, err := Collection(ds, name)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, FileName(name, format))
		if err := writeFile(path, format, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path, format string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, format, v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadDataset reads the three collection documents back from dir.
func ReadDataset(dir, format string) (*fixtures.Dataset, error) {
	if !ValidFormat(format) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	ds := &fixtures.Dataset{}
	targets := map[string]interface{}{
		CollectionUsers:        &ds.Users,
		CollectionMedicalStaff: &ds.MedicalStaff,
		CollectionPatients:     &ds.Patients,
	}
	for _, name := range Collections {
		path := filepath.Join(dir, FileName(name, format))
		if err := readFile(path, format, targets[name]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func readFile(path, format string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := Decode(f, format, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// WriteNDJSON streams the named collection as newline-delimited JSON.
func WriteNDJSON(w io.Writer, ds *fixtures.Dataset, name string) error {
	enc := json.NewEncoder(w)
	var err error
	switch name {
	case CollectionUsers:
		err = encodeEach(enc, ds.Users)
	case CollectionMedicalStaff:
		err = encodeEach(enc, ds.MedicalStaff)
	case CollectionPatients:
		err = encodeEach(enc, ds.Patients)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return nil
}

func encodeEach[T any](enc *json.Encoder, items []T) error {
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}
