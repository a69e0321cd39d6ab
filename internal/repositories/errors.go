package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrLicenseTaken    = errors.New("license id already registered")
	ErrPatientNotFound = errors.New("patient not found")
	ErrCPFTaken        = errors.New("cpf already registered")
)

// uniqueViolation возвращает имя нарушенного ограничения, если err - это
// unique_violation из Postgres
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// dbError оборачивает сбой хранилища с контекстом операции
func dbError(err error, op string) error {
	return oops.In("repository").
		Code("DB_QUERY_FAILED").
		With("operation", op).
		Wrap(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func constraintMentions(constraint, column string) bool {
	return strings.Contains(strings.ToLower(constraint), column)
}

// visibleTo - фильтр "мои или ничьи" по полю responsavel_id
func visibleTo(userID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("responsavel_id = ? OR responsavel_id IS NULL", userID)
	}
}
