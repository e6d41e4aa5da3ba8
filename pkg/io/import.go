package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
	"github.com/matzehuels/sysmlite/pkg/model"
)

// envelope uses pointers so absent members can be told apart from empty ones.
type envelope struct {
	Placements  *[]diagram.Placement      `json:"placements"`
	Connections *[]diagram.Connection     `json:"connections"`
	Elements    *map[string]model.Element `json:"elements"`
}

// Unmarshal decodes a snapshot.
//
// It fails with errors.ErrCodeParse when data is not valid JSON, and with
// errors.ErrCodeInvalidFormat when any of "placements", "connections" or
// "elements" is missing, null or of the wrong type.
func Unmarshal(data []byte) (diagram.Snapshot, error) {
	if !json.Valid(data) {
		return diagram.Snapshot{}, errs.Wrap(errs.ErrCodeParse, syntaxError(data), "snapshot is not valid JSON")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return diagram.Snapshot{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "snapshot has an unexpected shape")
	}

	var missing []string
	if env.Placements == nil {
		missing = append(missing, "placements")
	}
	if env.Connections == nil {
		missing = append(missing, "connections")
	}
	if env.Elements == nil {
		missing = append(missing, "elements")
	}
	if len(missing) > 0 {
		return diagram.Snapshot{}, errs.New(errs.ErrCodeInvalidFormat, "snapshot is missing %v", missing)
	}

	return diagram.Snapshot{
		Placements:  *env.Placements,
		Connections: *env.Connections,
		Elements:    *env.Elements,
	}, nil
}

// syntaxError recovers the decoder's position information for invalid input.
func syntaxError(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return fmt.Errorf("invalid JSON")
}

// ReadJSON reads all of r and decodes it with [Unmarshal]. It does not
// close r.
func ReadJSON(r io.Reader) (diagram.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return diagram.Snapshot{}, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// ImportJSON reads the JSON file at path and returns the decoded snapshot.
func ImportJSON(path string) (diagram.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return diagram.Snapshot{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return diagram.Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// LoadInto decodes data and replaces the store's state with it. On any
// error the store keeps its previous state.
func LoadInto(s *diagram.Store, data []byte) error {
	snap, err := Unmarshal(data)
	if err != nil {
		return err
	}
	return s.Load(snap)
}
