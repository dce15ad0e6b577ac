package migrations

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationFiles, ".")
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	require.Equal(t, uint(1), version)

	up, ident, err := src.ReadUp(version)
	require.NoError(t, err)
	defer up.Close()
	require.Equal(t, "init", ident)

	body, err := io.ReadAll(up)
	require.NoError(t, err)
	sql := string(body)
	for _, table := range []string{"events", "event_participations", "chat_channels", "chat_channel_members", "club_members"} {
		require.True(t, strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table+" "), "missing table %s", table)
	}
	require.Contains(t, sql, "PRIMARY KEY (event_id, user_id)")

	down, _, err := src.ReadDown(version)
	require.NoError(t, err)
	require.NoError(t, down.Close())
}
