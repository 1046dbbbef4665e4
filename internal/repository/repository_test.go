package repository

import (
	"path/filepath"
	"testing"

	"payout_vault/internal/database"
	"payout_vault/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := database.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestOperator(t *testing.T, db *database.DB) int64 {
	t.Helper()
	repo := NewOperatorRepository(db)
	id, err := repo.Create(&models.Operator{
		Username:     "alice",
		PasswordHash: "hashedpassword",
	})
	if err != nil {
		t.Fatalf("failed to create test operator: %v", err)
	}
	return id
}

func TestOperatorRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOperatorRepository(db)

	id, err := repo.Create(&models.Operator{
		Username:     "bob",
		PasswordHash: "hash",
		IsAdmin:      true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() = nil, want operator")
	}
	if got.Username != "bob" {
		t.Errorf("Username = %q, want %q", got.Username, "bob")
	}
	if !got.IsAdmin {
		t.Error("IsAdmin = false, want true")
	}

	byName, err := repo.GetByUsername("bob")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if byName == nil || byName.ID != id {
		t.Errorf("GetByUsername() = %+v, want ID %d", byName, id)
	}
}

func TestOperatorRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOperatorRepository(db)

	got, err := repo.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetByUsername() = %+v, want nil", got)
	}
}

func TestOperatorRepository_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOperatorRepository(db)

	op := &models.Operator{Username: "alice", PasswordHash: "hash"}
	if _, err := repo.Create(op); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.Create(op); err == nil {
		t.Error("Create() with duplicate username succeeded, want error")
	}
}

func TestOperatorRepository_CountAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOperatorRepository(db)

	count, err := repo.CountAll()
	if err != nil {
		t.Fatalf("CountAll() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountAll() = %d, want 0", count)
	}

	createTestOperator(t, db)

	count, err = repo.CountAll()
	if err != nil {
		t.Fatalf("CountAll() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountAll() = %d, want 1", count)
	}
}

func TestWithdrawalRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	operatorID := createTestOperator(t, db)
	repo := NewWithdrawalRepository(db)

	id, err := repo.Create(&models.WithdrawalAttempt{
		OperatorID:  operatorID,
		SRPID:       8241051,
		Amount:      25000,
		Destination: "DK5000400440116243",
		Status:      models.WithdrawalPending,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != models.WithdrawalPending {
		t.Errorf("Status = %q, want %q", got.Status, models.WithdrawalPending)
	}
	if got.SRPID != 8241051 {
		t.Errorf("SRPID = %d, want 8241051", got.SRPID)
	}

	if err := repo.MarkConfirmed(id, "wd-0001"); err != nil {
		t.Fatalf("MarkConfirmed() error = %v", err)
	}
	got, err = repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != models.WithdrawalConfirmed {
		t.Errorf("Status = %q, want %q", got.Status, models.WithdrawalConfirmed)
	}
	if got.CustodianRef != "wd-0001" {
		t.Errorf("CustodianRef = %q, want %q", got.CustodianRef, "wd-0001")
	}
}

func TestWithdrawalRepository_MarkFailed(t *testing.T) {
	db := setupTestDB(t)
	operatorID := createTestOperator(t, db)
	repo := NewWithdrawalRepository(db)

	id, err := repo.Create(&models.WithdrawalAttempt{
		OperatorID:  operatorID,
		SRPID:       1,
		Amount:      100,
		Destination: "dest",
		Status:      models.WithdrawalPending,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.MarkFailed(id, "password_invalid"); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != models.WithdrawalFailed {
		t.Errorf("Status = %q, want %q", got.Status, models.WithdrawalFailed)
	}
	if got.Failure != "password_invalid" {
		t.Errorf("Failure = %q, want %q", got.Failure, "password_invalid")
	}
}

func TestWithdrawalRepository_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWithdrawalRepository(db)

	if err := repo.MarkConfirmed(999, "ref"); err == nil {
		t.Error("MarkConfirmed() for missing attempt succeeded, want error")
	}
}

func TestWithdrawalRepository_RecentAndCount(t *testing.T) {
	db := setupTestDB(t)
	operatorID := createTestOperator(t, db)
	repo := NewWithdrawalRepository(db)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(&models.WithdrawalAttempt{
			OperatorID:  operatorID,
			SRPID:       int64(i + 1),
			Amount:      int64(100 * (i + 1)),
			Destination: "dest",
			Status:      models.WithdrawalPending,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	recent, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent() returned %d attempts, want 2", len(recent))
	}
	if recent[0].SRPID != 3 {
		t.Errorf("Recent()[0].SRPID = %d, want 3", recent[0].SRPID)
	}

	count, err := repo.CountByStatus(models.WithdrawalPending)
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountByStatus() = %d, want 3", count)
	}
}

func TestInvoiceRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)

	_, err := repo.Create(&models.Invoice{
		Reference: "inv-abc123",
		Amount:    50000,
		Currency:  "EUR",
		Memo:      "quarterly deposit",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByReference("inv-abc123")
	if err != nil {
		t.Fatalf("GetByReference() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByReference() = nil, want invoice")
	}
	if got.Amount != 50000 {
		t.Errorf("Amount = %d, want 50000", got.Amount)
	}
	if got.Paid {
		t.Error("Paid = true for new invoice, want false")
	}

	if err := repo.MarkPaid("inv-abc123"); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	got, err = repo.GetByReference("inv-abc123")
	if err != nil {
		t.Fatalf("GetByReference() error = %v", err)
	}
	if !got.Paid {
		t.Error("Paid = false after MarkPaid, want true")
	}
}

func TestInvoiceRepository_MarkPaidMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)

	if err := repo.MarkPaid("inv-missing"); err == nil {
		t.Error("MarkPaid() for missing invoice succeeded, want error")
	}
}

func TestInvoiceRepository_Recent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)

	refs := []string{"inv-1", "inv-2", "inv-3"}
	for _, ref := range refs {
		_, err := repo.Create(&models.Invoice{Reference: ref, Amount: 100, Currency: "EUR"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	recent, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Recent() returned %d invoices, want 3", len(recent))
	}
	if recent[0].Reference != "inv-3" {
		t.Errorf("Recent()[0].Reference = %q, want %q", recent[0].Reference, "inv-3")
	}
}
