package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/helpdesk-presence-api/pkg/config"
)

func TestMigrationFilesAreOrdered(t *testing.T) {
	names, err := migrationFiles()
	require.NoError(t, err)
	require.Len(t, names, 3)
	assert.Equal(t, "0001_presence_catalog.sql", names[0])
	assert.Equal(t, "0003_presence_seed.sql", names[2])
}

func TestMigrateAppliesEveryFile(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS status_types")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS presence_segments")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO status_types")).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	require.NoError(t, Migrate(context.Background(), sqlx.NewDb(db, "sqlmock"), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateStopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS status_types")).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = Migrate(context.Background(), sqlx.NewDb(db, "sqlmock"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_presence_catalog.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateRollsBackFileOnCommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS status_types")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err = Migrate(context.Background(), sqlx.NewDb(db, "sqlmock"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateWithoutDatabaseIsNoop(t *testing.T) {
	assert.NoError(t, Migrate(context.Background(), nil, nil))
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "helpdesk", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=helpdesk sslmode=disable", dsn)
}
