package checks

import (
	"regexp"
	"testing"

	"dormitory-manager/core/database"
	"dormitory-manager/feature/persistence/sqlstore"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func columnRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
}

func TestCheckServerIntegrity_NilDB(t *testing.T) {
	report, err := CheckServerIntegrity(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckServerIntegrity_SQLiteMigrated(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, sqlstore.New(db, zap.NewNop()).Migrate())

	report, err := CheckServerIntegrity(db)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", report.Driver)
	assert.True(t, report.Matched, "%+v", report.Tables)
	assert.Len(t, report.Tables, 4)
	for name, tbl := range report.Tables {
		assert.Equal(t, "ok", tbl.Status, name)
	}
}

func TestCheckServerIntegrity_SQLiteEmpty(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	report, err := CheckServerIntegrity(db)
	require.NoError(t, err)

	assert.False(t, report.Matched)
	assert.Equal(t, "missing", report.Tables["rooms"].Status)
}

func TestCheckServerIntegrity_MySQLMismatches(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `dormitories`")).WillReturnRows(columnRows().
		AddRow("id", "bigint", "NO", "PRI", nil, "auto_increment").
		AddRow("name", "varchar(255)", "NO", "", nil, "").
		AddRow("address", "varchar(255)", "NO", "", nil, "").
		AddRow("floors", "int", "NO", "", nil, "").
		AddRow("rooms_per_floor", "int", "NO", "", nil, ""))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `rooms`")).WillReturnRows(columnRows().
		AddRow("number", "varchar(16)", "NO", "PRI", nil, "").
		AddRow("status", "int(11)", "NO", "", nil, ""))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `dormers`")).WillReturnRows(columnRows().
		AddRow("room_number", "varchar(16)", "NO", "PRI", nil, ""))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `payments`")).WillReturnError(assert.AnError)

	report, err := CheckServerIntegrity(db)
	require.NoError(t, err)

	assert.False(t, report.Matched)
	assert.Equal(t, "ok", report.Tables["dormitories"].Status)

	rooms := report.Tables["rooms"]
	assert.Equal(t, "error", rooms.Status)
	assert.Equal(t, []string{"status: expected varchar(16), got int(11)"}, rooms.TypeMismatches)

	dormers := report.Tables["dormers"]
	assert.Contains(t, dormers.MissingColumns, "first_name")
	assert.Contains(t, dormers.MissingColumns, "entry_date")

	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "payments")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTypeMatches(t *testing.T) {
	assert.True(t, typeMatches("varchar(16)", "varchar(16)"))
	assert.True(t, typeMatches("int", "int(11)"))
	assert.True(t, typeMatches("tinyint(1)", "tinyint"))
	assert.False(t, typeMatches("varchar(16)", "int(11)"))
	assert.False(t, typeMatches("date", "double"))
}

func TestParseGormTags(t *testing.T) {
	tag := "primaryKey;column:room_number;type:varchar(16)"
	assert.Equal(t, "room_number", parseGormColumn(tag))
	assert.Equal(t, "varchar(16)", parseGormType(tag))
	assert.Empty(t, parseGormType("column:id"))
}
