/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"errors"
	"fmt"

	"github.com/bluele/gcache"
	"golang.org/x/exp/slices"
)

const wireFormatCacheSize = 64

// Registry resolves format services by format key and by wire format identifier.
// Resolved sets are deduplicated and ordered by registration.
type Registry struct {
	services []FormatService
	byKey    map[string]FormatService
	wire     gcache.Cache
}

// NewRegistry returns a registry of the given format services.
func NewRegistry(services ...FormatService) (*Registry, error) {
	r := &Registry{
		byKey: make(map[string]FormatService, len(services)),
		wire:  gcache.New(wireFormatCacheSize).LRU().Build(),
	}

	for _, svc := range services {
		if svc == nil {
			return nil, errors.New("format service is nil")
		}

		key := svc.FormatKey()
		if key == "" {
			return nil, errors.New("format service key is empty")
		}

		if _, ok := r.byKey[key]; ok {
			return nil, fmt.Errorf("format service %q registered twice", key)
		}

		r.byKey[key] = svc
		r.services = append(r.services, svc)
	}

	return r, nil
}

// Services returns the registered format services.
func (r *Registry) Services() []FormatService {
	return slices.Clone(r.services)
}

// ResolveByFormatKey returns the service registered under key.
func (r *Registry) ResolveByFormatKey(key string) (FormatService, bool) {
	svc, ok := r.byKey[key]

	return svc, ok
}

// ResolveByWireFormat returns the first service that supports the wire format identifier.
func (r *Registry) ResolveByWireFormat(format string) (FormatService, bool) {
	if cached, err := r.wire.Get(format); err == nil {
		svc, ok := cached.(FormatService)

		return svc, ok
	}

	idx := slices.IndexFunc(r.services, func(svc FormatService) bool {
		return svc.SupportsFormat(format)
	})
	if idx < 0 {
		return nil, false
	}

	svc := r.services[idx]

	if err := r.wire.Set(format, svc); err != nil {
		logger.Warnf("cache wire format %s: %v", format, err)
	}

	return svc, true
}

// ResolveFromFormats resolves the services for every spec of a message.
// Specs no service supports are skipped.
func (r *Registry) ResolveFromFormats(formats []Format) []FormatService {
	found := map[string]bool{}

	for _, f := range formats {
		if svc, ok := r.ResolveByWireFormat(f.Format); ok {
			found[svc.FormatKey()] = true
		}
	}

	return r.ordered(found)
}

// ResolveFromOptions resolves the services for the format keys of caller options.
// Unknown keys are skipped.
func (r *Registry) ResolveFromOptions(options FormatOptions) []FormatService {
	found := map[string]bool{}

	for key := range options {
		if _, ok := r.byKey[key]; ok {
			found[key] = true
		}
	}

	return r.ordered(found)
}

func (r *Registry) ordered(keys map[string]bool) []FormatService {
	var result []FormatService

	for _, svc := range r.services {
		if keys[svc.FormatKey()] {
			result = append(result, svc)
		}
	}

	return result
}

func formatKeys(services []FormatService) []string {
	keys := make([]string, 0, len(services))
	for _, svc := range services {
		keys = append(keys, svc.FormatKey())
	}

	return keys
}
