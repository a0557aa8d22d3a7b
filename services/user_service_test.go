package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "full_name"}).
		AddRow(7, "jane", "jane@example.com", "Jane Doe")
}

func profileRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "phone", "whatsapp", "bio"}).
		AddRow(3, 7, "+254712345678", "+254712345678", "old bio")
}

func TestUpdateProfileKeepsUnsuppliedFields(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserService(db)

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows())
	mock.ExpectQuery("SELECT \\* FROM `user_profiles`").WillReturnRows(profileRows())

	// Only the supplied field appears in the SET clause; stored phone and
	// whatsapp stay untouched.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE `user_profiles` SET `bio`=?,`updated_at`=? WHERE user_id = ? AND `user_profiles`.`deleted_at` IS NULL",
	)).
		WithArgs("new bio", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows())
	mock.ExpectQuery("SELECT \\* FROM `user_profiles`").WillReturnRows(profileRows())

	_, err := svc.UpdateProfile(7, ProfileUpdate{Bio: "new bio"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileWithNothingSuppliedWritesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserService(db)

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows())
	mock.ExpectQuery("SELECT \\* FROM `user_profiles`").WillReturnRows(profileRows())

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows())
	mock.ExpectQuery("SELECT \\* FROM `user_profiles`").WillReturnRows(profileRows())

	user, err := svc.UpdateProfile(7, ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
