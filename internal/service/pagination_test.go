package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPage(t *testing.T) {
	ctx := context.Background()

	t.Run("Assembles totals and position flags", func(t *testing.T) {
		page, err := fetchPage(ctx, model.PageRequest{Page: 2, PerPage: 10},
			func(context.Context) (int, error) { return 25, nil },
			func(ctx context.Context, limit, offset int) ([]string, error) {
				assert.Equal(t, 10, limit)
				assert.Equal(t, 10, offset)
				return []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, nil
			},
		)

		require.NoError(t, err)
		assert.Equal(t, 25, page.TotalCount)
		assert.Equal(t, 10, page.ShownEntryCount)
		assert.True(t, page.HasNext)
		assert.True(t, page.HasPrev)
	})

	t.Run("Empty result is a valid page", func(t *testing.T) {
		page, err := fetchPage(ctx, model.PageRequest{Page: 1, PerPage: 10},
			func(context.Context) (int, error) { return 0, nil },
			func(context.Context, int, int) ([]string, error) { return nil, nil },
		)

		require.NoError(t, err)
		assert.Equal(t, 0, page.ShownEntryCount)
		assert.NotNil(t, page.Entries)
		assert.False(t, page.HasNext)
		assert.False(t, page.HasPrev)
	})

	t.Run("Count failure propagates", func(t *testing.T) {
		wantErr := errors.New("count failed")
		_, err := fetchPage(ctx, model.PageRequest{Page: 1, PerPage: 10},
			func(context.Context) (int, error) { return 0, wantErr },
			func(context.Context, int, int) ([]string, error) { return nil, nil },
		)

		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("Fetch failure propagates", func(t *testing.T) {
		wantErr := errors.New("fetch failed")
		_, err := fetchPage(ctx, model.PageRequest{Page: 1, PerPage: 10},
			func(context.Context) (int, error) { return 5, nil },
			func(context.Context, int, int) ([]string, error) { return nil, wantErr },
		)

		assert.ErrorIs(t, err, wantErr)
	})
}

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       model.PageRequest
		expected model.PageRequest
	}{
		{"Valid request unchanged", model.PageRequest{Page: 3, PerPage: 50}, model.PageRequest{Page: 3, PerPage: 50}},
		{"Zero page clamps to one", model.PageRequest{Page: 0, PerPage: 10}, model.PageRequest{Page: 1, PerPage: 10}},
		{"Negative page clamps to one", model.PageRequest{Page: -2, PerPage: 10}, model.PageRequest{Page: 1, PerPage: 10}},
		{"Unknown size snaps to default", model.PageRequest{Page: 1, PerPage: 33}, model.PageRequest{Page: 1, PerPage: model.DefaultPageSize}},
		{"Zero size snaps to default", model.PageRequest{}, model.PageRequest{Page: 1, PerPage: model.DefaultPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Normalize())
		})
	}
}
