package dbx

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/deviceprov/internal/common"
	"github.com/stretchr/testify/require"
)

func TestExpectOneRow(t *testing.T) {
	require.NoError(t, ExpectOneRow(sqlmock.NewResult(0, 1)))
	require.ErrorIs(t, ExpectOneRow(sqlmock.NewResult(0, 0)), common.ErrorNoRowsAffected)
	require.EqualError(t, ExpectOneRow(sqlmock.NewResult(0, 3)), "unexpected rows affected: 3")
	require.ErrorContains(t, ExpectOneRow(sqlmock.NewErrorResult(errors.New("x"))), "rows affected error: x")
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
