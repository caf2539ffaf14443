// Package slotconfig reads slot registrations from YAML files.
//
// A file lists entries per slot in render order:
//
//	slots:
//	  aboveContentTitle:
//	    - path: /
//	      component: div
//	      props:
//	        className: slot-component
//	    - path: /other-place
//	      component: aside
//	      exact: true
//
// Component names are resolved through a storage.ComponentResolver, normally
// a catalog.Catalog.
package slotconfig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/louisbranch/pageslots/internal/slots"
	"github.com/louisbranch/pageslots/internal/slots/storage"
	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Slots map[string][]entryConfig `yaml:"slots"`
}

type entryConfig struct {
	Path      string         `yaml:"path"`
	Component string         `yaml:"component"`
	Props     map[string]any `yaml:"props"`
	Exact     bool           `yaml:"exact"`
}

// Parse decodes the registrations listed in r. Slots come out in name
// order; within a slot, Position follows document order starting at 1.
func Parse(r io.Reader) ([]storage.Registration, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var cfg fileConfig
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode slot config: %w", err)
	}

	names := make([]string, 0, len(cfg.Slots))
	for name := range cfg.Slots {
		names = append(names, name)
	}
	sort.Strings(names)

	var registrations []storage.Registration
	seen := make(map[string]string, len(names))
	for _, name := range names {
		slot := strings.TrimSpace(name)
		if slot == "" {
			return nil, errors.New("slot name is required")
		}
		if previous, ok := seen[slot]; ok {
			return nil, fmt.Errorf("slot %q is listed twice (as %q and %q)", slot, previous, name)
		}
		seen[slot] = name
		for i, entry := range cfg.Slots[name] {
			component := strings.TrimSpace(entry.Component)
			if component == "" {
				return nil, fmt.Errorf("slot %q entry %d: component is required", slot, i)
			}
			registrations = append(registrations, storage.Registration{
				Slot:      slot,
				Position:  i + 1,
				Path:      entry.Path,
				Component: component,
				Props:     entry.Props,
				Exact:     entry.Exact,
			})
		}
	}
	return registrations, nil
}

// ParseFile reads registrations from the file at path.
func ParseFile(path string) ([]storage.Registration, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("slot config path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open slot config: %w", err)
	}
	defer f.Close()

	registrations, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return registrations, nil
}

// Load decodes r and resolves each registration into a slot entry. An empty
// document yields no slots.
func Load(r io.Reader, resolver storage.ComponentResolver) (map[string][]slots.Entry, error) {
	if resolver == nil {
		return nil, errors.New("component resolver is required")
	}
	registrations, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return storage.BuildEntries(registrations, resolver)
}

// LoadFile is Load for the file at path.
func LoadFile(path string, resolver storage.ComponentResolver) (map[string][]slots.Entry, error) {
	if resolver == nil {
		return nil, errors.New("component resolver is required")
	}
	registrations, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return storage.BuildEntries(registrations, resolver)
}
