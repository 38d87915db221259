package dml

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/denismitr/dml/internal/storage"
	"github.com/pkg/errors"
)

var ErrInputTooLarge = storage.ErrInputTooLarge

const (
	binaryExt = ".bin"
	xmlExt    = ".xml"
	jsonExt   = ".json"
)

// LoadBinary reads and decodes a binary database file.
func LoadBinary(path string, cfg *Config) (*Database, error) {
	cfg, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	b, err := storage.ReadAll(path, cfg.MaxInputBytes)
	if err != nil {
		return nil, err
	}

	db, err := Decode(b, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode %s", path)
	}
	return db, nil
}

// SaveBinary encodes db and replaces path with the result.
func SaveBinary(db *Database, path string) error {
	b, err := Encode(db)
	if err != nil {
		return errors.Wrapf(err, "could not encode %s", path)
	}
	return storage.WriteAtomic(path, b)
}

// LoadTree reads a tree document, picking JSON for .json files and XML
// otherwise.
func LoadTree(path string, cfg *Config) (*Database, error) {
	cfg, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	b, err := storage.ReadAll(path, cfg.MaxInputBytes)
	if err != nil {
		return nil, err
	}

	var root *Node
	if filepath.Ext(path) == jsonExt {
		root, err = ReadJSON(bytes.NewReader(b))
	} else {
		root, err = ReadXML(bytes.NewReader(b))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", path)
	}

	db, err := FromTree(root, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load %s", path)
	}
	return db, nil
}

// SaveTree renders db in the configured tree format. The root element is
// named after the file stem.
func SaveTree(db *Database, path string, cfg *Config) error {
	cfg, err := resolveConfig(cfg)
	if err != nil {
		return err
	}

	root := ToTree(db, stem(path))

	var buf bytes.Buffer
	switch cfg.TreeFormat {
	case JSON:
		err = WriteJSON(&buf, root, cfg.Indent)
	default:
		err = WriteXML(&buf, root, cfg.Indent)
	}
	if err != nil {
		return errors.Wrapf(err, "could not render %s", path)
	}

	return storage.WriteAtomic(path, buf.Bytes())
}

// ConvertFile converts a tree document (.xml or .json) to a .bin file, or
// any other file, taken as binary, to a tree document. It returns the
// path written.
func ConvertFile(path string, cfg *Config) (string, error) {
	cfg, err := resolveConfig(cfg)
	if err != nil {
		return "", err
	}

	switch filepath.Ext(path) {
	case xmlExt, jsonExt:
		db, err := LoadTree(path, cfg)
		if err != nil {
			return "", err
		}
		out := withExt(path, binaryExt)
		if err := SaveBinary(db, out); err != nil {
			return "", err
		}
		return out, nil
	default:
		db, err := LoadBinary(path, cfg)
		if err != nil {
			return "", err
		}
		ext := xmlExt
		if cfg.TreeFormat == JSON {
			ext = jsonExt
		}
		out := withExt(path, ext)
		if err := SaveTree(db, out, cfg); err != nil {
			return "", err
		}
		return out, nil
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
