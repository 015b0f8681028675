package gorm

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beauteq/salon-assistant/pkg/model"
	"github.com/beauteq/salon-assistant/pkg/store"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCanonicalSpecialization(t *testing.T) {
	assert.Equal(t, "Парикмахер-стилист", CanonicalSpecialization("парикмахер"))
	assert.Equal(t, "Парикмахер-стилист", CanonicalSpecialization("Хочу стрижку у стилиста"))
	assert.Equal(t, "Мастер маникюра", CanonicalSpecialization("НОГТИ"))
	assert.Equal(t, "Косметолог", CanonicalSpecialization("чистка лица"))
	assert.Equal(t, "Визажист", CanonicalSpecialization("макияж"))
	// unknown wording passes through
	assert.Equal(t, "массажист", CanonicalSpecialization("  массажист "))
}

func TestCatalogStore_ListMasters(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCatalogStore(db)

	mock.ExpectQuery(`SELECT \* FROM "masters" WHERE is_active = .+ AND LOWER\(specialization\) = LOWER\(.+\) ORDER BY id`).
		WithArgs(true, "Парикмахер-стилист").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "specialization", "is_active"}).
			AddRow(1, "Анна Ребикова", "Парикмахер-стилист", true))

	masters, err := s.ListMasters("парикмахер")
	require.NoError(t, err)
	require.Len(t, masters, 1)
	assert.Equal(t, store.Master{ID: 1, Name: "Анна Ребикова", Specialization: "Парикмахер-стилист"}, masters[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogStore_ListMastersUnfiltered(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCatalogStore(db)

	mock.ExpectQuery(`SELECT \* FROM "masters" WHERE is_active = .+ ORDER BY id`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "specialization", "is_active"}))

	masters, err := s.ListMasters("")
	require.NoError(t, err)
	assert.Empty(t, masters)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogStore_ListServices(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCatalogStore(db)

	mock.ExpectQuery(`SELECT \* FROM "services" WHERE LOWER\(category\) = LOWER\(.+\) ORDER BY id`).
		WithArgs("Парикмахерские").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "duration_minutes", "price_kopecks"}).
			AddRow(1, "Стрижка женская", "Парикмахерские", 60, 250000))

	services, err := s.ListServices(" Парикмахерские ")
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, int64(250000), services[0].PriceKopecks)
	assert.Equal(t, 60, services[0].DurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore_SaveUserUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUsersStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" .+ ON CONFLICT \("user_id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.SaveUser(store.User{ID: 100, Username: "masha", FirstName: "Мария"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationsStore_SaveConversation(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewConversationsStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "conversations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := s.SaveConversation(100, "Привет", false, "message")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationsStore_LoadConversationReverses(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewConversationsStore(db)

	// store returns newest first, the result must be chronological
	mock.ExpectQuery(`SELECT \* FROM "conversations" WHERE user_id = .+ ORDER BY created_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "is_bot", "intent"}).
			AddRow(2, 100, "Чем могу помочь?", true, "response").
			AddRow(1, 100, "Привет", false, "message"))

	entries, err := s.LoadConversation(100, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, store.ConversationEntry{Message: "Привет", IsBot: false, Intent: "message"}, entries[0])
	assert.Equal(t, store.ConversationEntry{Message: "Чем могу помочь?", IsBot: true, Intent: "response"}, entries[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentsStore_SlotTaken(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAppointmentsStore(db)

	at := time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE master_id = .+ AND appointment_at = .+ AND status IN`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := s.SlotTaken(1, at)
	require.NoError(t, err)
	assert.True(t, taken)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	taken, err = s.SlotTaken(1, at)
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentsStore_CreateAppointment(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAppointmentsStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	id, err := s.CreateAppointment(100, 1, 2, time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentsStore_ListUserAppointments(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAppointmentsStore(db)

	at := time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT a.id, a.user_id, m.name AS master_name`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "master_name", "service_name", "appointment_at", "status", "price_kopecks",
		}).AddRow(7, 100, "Анна Ребикова", "Стрижка женская", at, model.StatusBooked.String(), 250000))

	appointments, err := s.ListUserAppointments(100)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "Анна Ребикова", appointments[0].MasterName)
	assert.Equal(t, model.StatusBooked, appointments[0].Status)
	assert.Equal(t, at, appointments[0].AppointmentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKnowledgeStore_UpsertKnowledge(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewKnowledgeStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "knowledge" .+ ON CONFLICT \("category"\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	err := s.UpsertKnowledge([]store.KnowledgeItem{
		{Category: "Парковка", Keywords: "парковка", Content: "Есть парковка."},
		{Category: "Оплата", Keywords: "оплата", Content: "Карты и наличные."},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKnowledgeStore_UpsertNothing(t *testing.T) {
	db, _ := newMockDB(t)
	s := NewKnowledgeStore(db)

	assert.NoError(t, s.UpsertKnowledge(nil))
}

func TestKnowledgeStore_ListKnowledge(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewKnowledgeStore(db)

	mock.ExpectQuery(`SELECT \* FROM "knowledge" ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "keywords", "content"}).
			AddRow(1, "Парковка", "парковка", "Есть парковка."))

	items, err := s.ListKnowledge()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Парковка", items[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthStore_CheckConnectivity(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewHealthStore(db)

	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, s.CheckConnectivity())
	assert.NoError(t, mock.ExpectationsWereMet())
}
