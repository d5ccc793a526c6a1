// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svthalia/concrexit-sub001/models"
)

func Test_buildSelectResourcesQuery(t *testing.T) {
	tests := []struct {
		name        string
		placeholder sq.PlaceholderFormat
		where       sq.Sqlizer
		orderBy     []string
		wantParts   []string
		wantArgs    []any
	}{
		{
			name:        "postgres placeholders",
			placeholder: sq.Dollar,
			where:       sq.Eq{"kind": "contact"},
			wantParts:   []string{"FROM resources", "WHERE kind = $1"},
			wantArgs:    []any{"contact"},
		},
		{
			name:        "sqlite placeholders",
			placeholder: sq.Question,
			where:       sq.Eq{"kind": "contact"},
			wantParts:   []string{"WHERE kind = ?"},
			wantArgs:    []any{"contact"},
		},
		{
			name:        "with ordering",
			placeholder: sq.Dollar,
			where:       sq.Eq{"parent_id": "p"},
			orderBy:     []string{"position", "created_at"},
			wantParts:   []string{"ORDER BY position, created_at"},
			wantArgs:    []any{"p"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sq.StatementBuilder.PlaceholderFormat(tt.placeholder)

			query, args, err := buildSelectResourcesQuery(b, tt.where, tt.orderBy...)

			require.NoError(t, err)
			for _, part := range tt.wantParts {
				assert.Contains(t, query, part)
			}
			for _, col := range resourceColumns {
				assert.Contains(t, query, col)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_buildSelectRemoteVersionsQuery(t *testing.T) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query, args, err := buildSelectRemoteVersionsQuery(b, "contact")

	require.NoError(t, err)
	assert.Equal(t, "SELECT remote_id, remote_version FROM resources WHERE kind = $1 AND remote_id IS NOT NULL", query)
	assert.Equal(t, []any{"contact"}, args)
}

func Test_buildUpsertResourceQuery(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	t.Run("new unsynced record", func(t *testing.T) {
		res := models.NewResource("contact", "")

		query, args, err := buildUpsertResourceQuery(b, res, "{}", now)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(query, "INSERT INTO resources"))
		assert.Contains(t, query, "ON CONFLICT (id) DO UPDATE SET")
		assert.NotContains(t, query, "created_at = excluded.created_at")
		require.Len(t, args, len(resourceColumns))
		assert.Equal(t, res.ID.String(), args[0])
		assert.Nil(t, args[3], "remote_id")
		assert.Nil(t, args[4], "remote_version")
		assert.Nil(t, args[7], "parent_id")
		assert.Equal(t, now, args[10], "created_at defaults to now")
		assert.Equal(t, now, args[11])
	})

	t.Run("synced line keeps created_at", func(t *testing.T) {
		created := now.Add(-time.Hour)
		parent := uuid.New()
		res := models.NewResource(models.KindSalesInvoiceDetail, models.KindDocumentLine)
		res.SetRemoteID("31")
		res.SetRemoteVersion(8)
		res.ParentID = &parent
		res.Position = 3
		res.CreatedAt = created

		_, args, err := buildUpsertResourceQuery(b, res, `{"a":1}`, now)

		require.NoError(t, err)
		assert.Equal(t, models.KindDocumentLine, args[2])
		assert.Equal(t, "31", args[3])
		assert.Equal(t, int64(8), args[4])
		assert.Equal(t, parent.String(), args[7])
		assert.Equal(t, 3, args[8])
		assert.Equal(t, `{"a":1}`, args[9])
		assert.Equal(t, created, args[10])
	})
}

func Test_buildDeleteResourcesQuery(t *testing.T) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	except := uuid.New()

	query, args, err := buildDeleteResourcesQuery(b, whereRemoteIDExcept("base_kind", "document", "5", except))

	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM resources WHERE (base_kind = ? AND remote_id = ? AND id <> ?)", query)
	assert.Equal(t, []any{"document", "5", except.String()}, args)
}

func Test_remoteIDStrings(t *testing.T) {
	assert.Equal(t, []string{"1", "b"}, remoteIDStrings([]models.RemoteID{"1", "b"}))
	assert.Empty(t, remoteIDStrings(nil))
}
