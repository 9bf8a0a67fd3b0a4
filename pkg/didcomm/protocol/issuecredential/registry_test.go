/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Run("nil service", func(t *testing.T) {
		_, err := NewRegistry(nil)
		require.EqualError(t, err, "format service is nil")
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := NewRegistry(&stubFormat{wire: []string{"a"}})
		require.EqualError(t, err, "format service key is empty")
	})

	t.Run("duplicate key", func(t *testing.T) {
		_, err := NewRegistry(&stubFormat{key: "a"}, &stubFormat{key: "a"})
		require.EqualError(t, err, `format service "a" registered twice`)
	})
}

func TestRegistry_Resolve(t *testing.T) {
	first := &stubFormat{key: "first", wire: []string{"first@v1.0", "legacy@v2.0"}}
	second := &stubFormat{key: "second", wire: []string{"second@v1.0"}}

	r, err := NewRegistry(first, second)
	require.NoError(t, err)
	require.Len(t, r.Services(), 2)

	t.Run("by key", func(t *testing.T) {
		svc, ok := r.ResolveByFormatKey("second")
		require.True(t, ok)
		require.Equal(t, second, svc)

		_, ok = r.ResolveByFormatKey("third")
		require.False(t, ok)
	})

	t.Run("by wire format is cached", func(t *testing.T) {
		svc, ok := r.ResolveByWireFormat("legacy@v2.0")
		require.True(t, ok)
		require.Equal(t, first, svc)

		calls := first.calls

		svc, ok = r.ResolveByWireFormat("legacy@v2.0")
		require.True(t, ok)
		require.Equal(t, first, svc)
		require.Equal(t, calls, first.calls)

		_, ok = r.ResolveByWireFormat("unknown@v1.0")
		require.False(t, ok)
	})

	t.Run("from formats keeps registration order and dedups", func(t *testing.T) {
		services := r.ResolveFromFormats([]Format{
			{AttachID: "1", Format: "second@v1.0"},
			{AttachID: "2", Format: "first@v1.0"},
			{AttachID: "3", Format: "legacy@v2.0"},
			{AttachID: "4", Format: "unknown@v1.0"},
		})
		require.Equal(t, []FormatService{first, second}, services)
	})

	t.Run("from options skips unknown keys", func(t *testing.T) {
		services := r.ResolveFromOptions(FormatOptions{"second": nil, "third": nil})
		require.Equal(t, []FormatService{second}, services)

		require.Empty(t, r.ResolveFromOptions(nil))
	})
}
