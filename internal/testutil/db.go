// Package testutil - общие помощники для тестов: gorm поверх sqlmock
// и in-memory реализации репозиториев.
package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewMockDB возвращает *gorm.DB (диалект postgres) поверх sqlmock.
// Запросы сравниваются регулярными выражениями.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	return db, mock
}

// NewTxDB - база для тестов сервисов с фейковыми репозиториями:
// SQL не выполняется, но db.Transaction должен уметь открыть и закрыть
// транзакцию. Заранее регистрирует n пар BEGIN/COMMIT (и ROLLBACK).
func NewTxDB(t *testing.T, n int) *gorm.DB {
	t.Helper()

	db, mock := NewMockDB(t)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	return db
}
