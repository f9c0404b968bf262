package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ehr/fixtures/internal/domain/fixtures"
)

// mockTx implements the pgx.Tx methods the loader touches. The embedded
// interface is nil, so any other call panics.
type mockTx struct {
	pgx.Tx
	mock.Mock
}

func (m *mockTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	ret := m.Called(ctx, sql)
	return pgconn.CommandTag{}, ret.Error(0)
}

func (m *mockTx) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	ret := m.Called(ctx, table, columns, src)
	return int64(ret.Int(0)), ret.Error(1)
}

func (m *mockTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockBeginner struct {
	mock.Mock
}

func (m *mockBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	ret := m.Called(ctx)
	tx, _ := ret.Get(0).(pgx.Tx)
	return tx, ret.Error(1)
}

func testDataset() *fixtures.Dataset {
	return &fixtures.Dataset{
		Users: []fixtures.User{
			{ID: 1, Username: "doc", PasswordHash: "h1", Role: fixtures.RoleDoctor},
			{ID: 2, Username: "pat", PasswordHash: "h2", Role: fixtures.RolePatient},
		},
		MedicalStaff: []fixtures.MedicalStaff{
			{ID: 1, UserID: 1, Specialisation: "Oncology", AvailabilityStartTime: "09:30", AvailabilityEndTime: "17:30", Role: fixtures.RoleDoctor},
		},
		Patients: []fixtures.Patient{
			{ID: 1, UserID: 2, DateOfBirth: "1975-12-24", EmergencyContact: fixtures.EmergencyContact{Relationship: "Friend"}},
		},
	}
}

func expectCopies(tx *mockTx, users, staff, patients int) {
	tx.On("CopyFrom", mock.Anything, pgx.Identifier{"users"}, userColumns, mock.Anything).Return(users, nil).Once()
	tx.On("CopyFrom", mock.Anything, pgx.Identifier{"medical_staff"}, staffColumns, mock.Anything).Return(staff, nil).Once()
	tx.On("CopyFrom", mock.Anything, pgx.Identifier{"patients"}, patientColumns, mock.Anything).Return(patients, nil).Once()
}

func TestCopy(t *testing.T) {
	tx := &mockTx{}
	tx.On("Exec", mock.Anything, mock.AnythingOfType("string")).Return(nil).Times(len(schemaStatements))
	expectCopies(tx, 2, 1, 1)

	result, err := Copy(context.Background(), tx, testDataset(), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, &LoadResult{Users: 2, MedicalStaff: 1, Patients: 1}, result)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Exec", mock.Anything, truncateStatement)
}

func TestCopy_Truncate(t *testing.T) {
	tx := &mockTx{}
	tx.On("Exec", mock.Anything, truncateStatement).Return(nil).Once()
	tx.On("Exec", mock.Anything, mock.AnythingOfType("string")).Return(nil)
	expectCopies(tx, 2, 1, 1)

	_, err := Copy(context.Background(), tx, testDataset(), LoadOptions{Truncate: true})
	require.NoError(t, err)
	tx.AssertCalled(t, "Exec", mock.Anything, truncateStatement)
}

func TestCopy_SchemaFailure(t *testing.T) {
	tx := &mockTx{}
	tx.On("Exec", mock.Anything, mock.Anything).Return(errors.New("permission denied")).Once()

	_, err := Copy(context.Background(), tx, testDataset(), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema statement 1")
	tx.AssertNotCalled(t, "CopyFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCopy_CopyFailure(t *testing.T) {
	tx := &mockTx{}
	tx.On("Exec", mock.Anything, mock.Anything).Return(nil)
	tx.On("CopyFrom", mock.Anything, pgx.Identifier{"users"}, userColumns, mock.Anything).Return(0, errors.New("duplicate key")).Once()

	_, err := Copy(context.Background(), tx, testDataset(), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy users")
}

func TestLoader_Load_Commits(t *testing.T) {
	tx := &mockTx{}
	tx.On("Exec", mock.Anything, mock.Anything).Return(nil)
	expectCopies(tx, 2, 1, 1)
	tx.On("Commit", mock.Anything).Return(nil).Once()
	tx.On("Rollback", mock.Anything).Return(pgx.ErrTxClosed).Maybe()

	b := &mockBeginner{}
	b.On("Begin", mock.Anything).Return(tx, nil).Once()

	result, err := NewLoader(b, zerolog.Nop()).Load(context.Background(), testDataset(), LoadOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Patients)
	tx.AssertCalled(t, "Commit", mock.Anything)
}

func TestLoader_Load_RollsBack(t *testing.T) {
	tx := &mockTx{}
	tx.On("Exec", mock.Anything, mock.Anything).Return(nil)
	tx.On("CopyFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, errors.New("disk full"))
	tx.On("Rollback", mock.Anything).Return(nil)

	b := &mockBeginner{}
	b.On("Begin", mock.Anything).Return(tx, nil).Once()

	_, err := NewLoader(b, zerolog.Nop()).Load(context.Background(), testDataset(), LoadOptions{})
	require.Error(t, err)
	tx.AssertCalled(t, "Rollback", mock.Anything)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestLoader_Load_BeginFails(t *testing.T) {
	b := &mockBeginner{}
	b.On("Begin", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewLoader(b, zerolog.Nop()).Load(context.Background(), testDataset(), LoadOptions{})
	require.Error(t, err)
}

func TestPatientRows(t *testing.T) {
	rows, err := PatientRows(testDataset().Patients)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Len(t, row, len(patientColumns))

	assert.Equal(t, time.Date(1975, 12, 24, 0, 0, 0, 0, time.UTC), row[4])

	var contact fixtures.EmergencyContact
	require.NoError(t, json.Unmarshal(row[8].([]byte), &contact))
	assert.Equal(t, "Friend", contact.Relationship)

	// nil embedded lists are stored as [] rather than null.
	assert.Equal(t, []byte("[]"), row[9])
	assert.Equal(t, []byte("[]"), row[10])
}

func TestPatientRows_BadDate(t *testing.T) {
	_, err := PatientRows([]fixtures.Patient{{ID: 4, DateOfBirth: "24/12/1975"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patient 4")
}

func TestUserAndStaffRows(t *testing.T) {
	ds := testDataset()
	users := UserRows(ds.Users)
	require.Len(t, users, 2)
	assert.Equal(t, []any{1, "doc", "h1", "Doctor"}, users[0])

	staff := StaffRows(ds.MedicalStaff)
	require.Len(t, staff, 1)
	assert.Len(t, staff[0], len(staffColumns))
	assert.Equal(t, "Oncology", staff[0][4])
}
