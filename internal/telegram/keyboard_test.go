package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationRow(t *testing.T) {
	assert.Nil(t, PaginationRow(0, 1, "p_"))

	row := PaginationRow(0, 3, "p_")
	require.Len(t, row, 2)
	assert.Equal(t, "1/3", row[0].Text)
	assert.Equal(t, NoopCallback, row[0].CallbackData)
	assert.Equal(t, "p_1", row[1].CallbackData)

	row = PaginationRow(1, 3, "p_")
	require.Len(t, row, 3)
	assert.Equal(t, "p_0", row[0].CallbackData)
	assert.Equal(t, "p_2", row[2].CallbackData)

	row = PaginationRow(2, 3, "p_")
	require.Len(t, row, 2)
	assert.Equal(t, "p_1", row[0].CallbackData)
	assert.Equal(t, "3/3", row[1].Text)
}
