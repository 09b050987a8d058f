package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/wolfman30/ward-portal/internal/schedule"
)

var bookingRowColumns = []string{"id", "code", "service", "counter", "booking_date", "slot", "citizen_name", "national_id", "phone", "note", "created_at"}

func sampleBooking() *Booking {
	date := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	return &Booking{
		ID:          "b2c1d1f4-8d0e-4a77-9f0b-4f9a4e1f0a11",
		Code:        "TT-1610-0900-37",
		Service:     ServiceCertification,
		ServiceName: ServiceCertification.Label(),
		Counter:     "07",
		Date:        date,
		DateLabel:   DisplayDate(date),
		Slot:        schedule.NewSlot(9, 0, 9, 30),
		CitizenName: "Nguyễn Văn A",
		NationalID:  "079123456789",
		Phone:       "0909123456",
		CreatedAt:   time.Date(2026, 10, 15, 2, 10, 0, 0, time.UTC),
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	b := sampleBooking()

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(b.ID, b.Code, "certification", "07", b.Date, "09:00 - 09:30", b.CitizenName, b.NationalID, b.Phone, "", b.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	if err := repo.Create(context.Background(), b); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	mock.ExpectExec("INSERT INTO bookings").WillReturnError(errors.New("duplicate key"))
	if err := repo.Create(context.Background(), b); err == nil {
		t.Fatal("expected insert error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetByCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	b := sampleBooking()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE upper\\(code\\)").
		WithArgs("TT-1610-0900-37").
		WillReturnRows(pgxmock.NewRows(bookingRowColumns).
			AddRow(b.ID, b.Code, "certification", "07", b.Date, "09:00 - 09:30", b.CitizenName, b.NationalID, b.Phone, "", b.CreatedAt))
	got, err := repo.GetByCode(context.Background(), " tt-1610-0900-37 ")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Slot != b.Slot || got.ServiceName != b.ServiceName || got.DateLabel != "16/10/2026" {
		t.Fatalf("unexpected booking: %+v", got)
	}

	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs("TT-MISSING").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByCode(context.Background(), "TT-MISSING"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_ListByNationalID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	b := sampleBooking()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE national_id").
		WithArgs(b.NationalID).
		WillReturnRows(pgxmock.NewRows(bookingRowColumns).
			AddRow(b.ID, b.Code, "certification", "07", b.Date, "09:00 - 09:30", b.CitizenName, b.NationalID, b.Phone, "", b.CreatedAt).
			AddRow("other-id", "TT-1710-0730-02", "land", "11", b.Date.AddDate(0, 0, 1), "07:30 - 08:00", b.CitizenName, b.NationalID, b.Phone, "mang bản gốc", b.CreatedAt))
	list, err := repo.ListByNationalID(context.Background(), b.NationalID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[1].Counter != "11" || list[1].Note != "mang bản gốc" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
