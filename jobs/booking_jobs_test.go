package jobs

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestSweepBookingLifecycle(t *testing.T) {
	db, mock := newMockDB(t)
	runner := NewJobRunner(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bookings` SET `status`=.+ WHERE status = .+ AND check_out <= .+").
		WithArgs("completed", sqlmock.AnyArg(), "confirmed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bookings` SET `status`=.+ WHERE status = .+ AND check_in < .+").
		WithArgs("cancelled", sqlmock.AnyArg(), "pending", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	runner.SweepBookingLifecycle()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepBookingLifecycleRecoversFromDBError(t *testing.T) {
	db, mock := newMockDB(t)
	runner := NewJobRunner(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bookings`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bookings`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Errors are logged, never panicked or returned.
	assert.NotPanics(t, runner.SweepBookingLifecycle)
}
