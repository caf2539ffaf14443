// Package storage defines persistence contracts for slot registrations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/pageslots/internal/slots"
)

var (
	// ErrNotFound indicates a requested registration is missing.
	ErrNotFound = errors.New("record not found")
)

// Registration is one stored slot entry. Position orders entries within a
// slot; lower positions render first.
type Registration struct {
	Slot      string
	Position  int
	Path      string
	Component string
	Props     map[string]any
	Exact     bool
	UpdatedAt time.Time
}

// RegistrationStore persists slot registrations.
type RegistrationStore interface {
	PutRegistration(ctx context.Context, registration Registration) error
	DeleteRegistration(ctx context.Context, slot string, position int) error
	// ListRegistrations returns all registrations ordered by slot, then
	// position.
	ListRegistrations(ctx context.Context) ([]Registration, error)
}

// RegistrationLister reads stored registrations.
type RegistrationLister interface {
	ListRegistrations(ctx context.Context) ([]Registration, error)
}

// ComponentResolver resolves component names to renderables.
type ComponentResolver interface {
	Lookup(name string) (slots.Renderable, error)
}

// RegistryReplacer swaps the contents of a slot registry.
type RegistryReplacer interface {
	Replace(entries map[string][]slots.Entry)
}

// BuildEntries converts registrations into slot entries, keeping the order of
// registrations within each slot.
func BuildEntries(registrations []Registration, resolver ComponentResolver) (map[string][]slots.Entry, error) {
	if resolver == nil {
		return nil, errors.New("component resolver is required")
	}
	entries := make(map[string][]slots.Entry)
	for _, registration := range registrations {
		component, err := resolver.Lookup(registration.Component)
		if err != nil {
			return nil, fmt.Errorf("slot %q position %d: %w", registration.Slot, registration.Position, err)
		}
		var props slots.Props
		if len(registration.Props) > 0 {
			props = make(slots.Props, len(registration.Props))
			for key, value := range registration.Props {
				props[key] = value
			}
		}
		entries[registration.Slot] = append(entries[registration.Slot], slots.Entry{
			Path:      registration.Path,
			Component: component,
			Props:     props,
			Exact:     registration.Exact,
		})
	}
	return entries, nil
}

// LoadEntries lists registrations from store and converts them to entries.
func LoadEntries(ctx context.Context, store RegistrationLister, resolver ComponentResolver) (map[string][]slots.Entry, error) {
	if store == nil {
		return nil, errors.New("registration store is required")
	}
	registrations, err := store.ListRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return BuildEntries(registrations, resolver)
}

// LoadRegistry replaces registry contents with the stored registrations. The
// registry is left untouched when loading fails.
func LoadRegistry(ctx context.Context, store RegistrationLister, resolver ComponentResolver, registry RegistryReplacer) error {
	if registry == nil {
		return errors.New("registry is required")
	}
	entries, err := LoadEntries(ctx, store, resolver)
	if err != nil {
		return err
	}
	registry.Replace(entries)
	return nil
}
