package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesAreOrderedAndEmbedded(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])

	body, err := files.ReadFile(names[0])
	require.NoError(t, err)
	for _, table := range []string{"users", "accounts", "transactions", "categories", "goals", "opinions"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestMoneyColumnsUseFixedScale(t *testing.T) {
	body, err := files.ReadFile("001_init.sql")
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(body), "NUMERIC(18, 2)"))
}
