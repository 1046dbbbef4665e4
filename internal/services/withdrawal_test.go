package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"payout_vault/internal/custodian"
	"payout_vault/internal/database"
	apperrors "payout_vault/internal/errors"
	"payout_vault/internal/models"
	"payout_vault/internal/repository"
)

const (
	testSRPB = "90bb8d3ddc3cd02abd8ac90faa5d78df5feaec9d46c577bd32558ed4f567b1fa" +
		"eaeb4238f4520d68a62140cde96690e6e14a481cfd92962cbbfa948fe0dfc1d2" +
		"ebb99c2edc7135414dac05540c25700493674fde2d550e6a46627a93987e6a4c" +
		"fa30f66ba4b757ae0dadc919325b7f39ce79db5777e984981e2857d88cb21cf0" +
		"99346fcd42bf235fcf4d38f8d9e8a3db7ca2a9bc86a5cc64a7b25e560b53b66c" +
		"52fc58fc7a086cca2736f0fd47d5c650c1ee85dc24b4e3e773ddfded5ec83f55" +
		"6bce79d868392dcace3c84a57fc1295d94caade94d7850e13cfc9bcbefac5f3b" +
		"b004d6396e84c18485bfa57bb11341fc322fb7b3a58a97ac0354f461b4e3e1fd"

	testSalt = "cGF5b3V0LXNhbHQ=" // base64("payout-salt")
)

type serviceFixture struct {
	service  *WithdrawalService
	attempts *repository.WithdrawalRepository
	db       *database.DB
	operator int64
}

// custodianStub controls the mock custodian's withdrawal behavior.
type custodianStub struct {
	withdrawStatus int
	withdrawCode   string
}

func setupWithdrawalTest(t *testing.T, stub *custodianStub) *serviceFixture {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/account/password", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"srp_id":       "8241051",
			"srp_B":        testSRPB,
			"current_salt": testSalt,
		})
	})
	mux.HandleFunc("/account/balance", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(custodian.Balance{Available: 125000, Pending: 3000, Currency: "EUR"})
	})
	mux.HandleFunc("/account/withdraw", func(w http.ResponseWriter, r *http.Request) {
		if stub.withdrawStatus != 0 {
			w.WriteHeader(stub.withdrawStatus)
			json.NewEncoder(w).Encode(map[string]string{"code": stub.withdrawCode})
			return
		}
		var body struct {
			Amount int64 `json:"amount"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(custodian.WithdrawalResult{
			Reference: "wd-0001",
			Status:    "pending",
			Amount:    body.Amount,
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := custodian.NewClient(server.URL, "test-token")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

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

	operatorRepo := repository.NewOperatorRepository(db)
	operatorID, err := operatorRepo.Create(&models.Operator{Username: "alice", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("failed to create test operator: %v", err)
	}

	attempts := repository.NewWithdrawalRepository(db)
	audit := NewAuditService(db)

	return &serviceFixture{
		service:  NewWithdrawalService(client, attempts, audit),
		attempts: attempts,
		db:       db,
		operator: operatorID,
	}
}

func TestWithdraw_Success(t *testing.T) {
	f := setupWithdrawalTest(t, &custodianStub{})

	attempt, err := f.service.Withdraw(f.operator, 5000, "acct-77", "hunter2", "10.0.0.1")
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if attempt.Status != models.WithdrawalConfirmed {
		t.Errorf("Status = %q, want %q", attempt.Status, models.WithdrawalConfirmed)
	}
	if attempt.CustodianRef != "wd-0001" {
		t.Errorf("CustodianRef = %q, want %q", attempt.CustodianRef, "wd-0001")
	}
	if attempt.SRPID != 8241051 {
		t.Errorf("SRPID = %d, want 8241051", attempt.SRPID)
	}

	stored, err := f.attempts.GetByID(attempt.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Status != models.WithdrawalConfirmed {
		t.Errorf("stored status = %q, want %q", stored.Status, models.WithdrawalConfirmed)
	}
}

func TestWithdraw_PasswordRejected(t *testing.T) {
	f := setupWithdrawalTest(t, &custodianStub{
		withdrawStatus: http.StatusForbidden,
		withdrawCode:   "PASSWORD_INVALID",
	})

	attempt, err := f.service.Withdraw(f.operator, 5000, "acct-77", "wrong-password", "10.0.0.1")
	if !errors.Is(err, apperrors.ErrRejected) {
		t.Fatalf("Withdraw() error = %v, want ErrRejected", err)
	}
	if attempt == nil {
		t.Fatal("Withdraw() attempt = nil, want recorded attempt")
	}
	if attempt.Failure != FailurePasswordInvalid {
		t.Errorf("Failure = %q, want %q", attempt.Failure, FailurePasswordInvalid)
	}

	stored, err := f.attempts.GetByID(attempt.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Status != models.WithdrawalFailed {
		t.Errorf("stored status = %q, want %q", stored.Status, models.WithdrawalFailed)
	}
	if stored.Failure != FailurePasswordInvalid {
		t.Errorf("stored failure = %q, want %q", stored.Failure, FailurePasswordInvalid)
	}
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	f := setupWithdrawalTest(t, &custodianStub{
		withdrawStatus: http.StatusConflict,
		withdrawCode:   "INSUFFICIENT_FUNDS",
	})

	attempt, err := f.service.Withdraw(f.operator, 999999999, "acct-77", "hunter2", "10.0.0.1")
	if !errors.Is(err, apperrors.ErrRejected) {
		t.Fatalf("Withdraw() error = %v, want ErrRejected", err)
	}
	if attempt.Failure != FailureInsufficientFunds {
		t.Errorf("Failure = %q, want %q", attempt.Failure, FailureInsufficientFunds)
	}
}

func TestWithdraw_Validation(t *testing.T) {
	f := setupWithdrawalTest(t, &custodianStub{})

	cases := []struct {
		name        string
		amount      int64
		destination string
		password    string
	}{
		{"zero amount", 0, "acct-77", "hunter2"},
		{"negative amount", -1, "acct-77", "hunter2"},
		{"empty destination", 100, "", "hunter2"},
		{"empty password", 100, "acct-77", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Withdraw(f.operator, tc.amount, tc.destination, tc.password, "10.0.0.1")
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("Withdraw() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestWithdraw_NeverRecordsPassword(t *testing.T) {
	f := setupWithdrawalTest(t, &custodianStub{
		withdrawStatus: http.StatusForbidden,
		withdrawCode:   "PASSWORD_INVALID",
	})

	const password = "super-secret-phrase-xyzzy"
	f.service.Withdraw(f.operator, 100, "acct-77", password, "10.0.0.1")

	// Neither the attempt record nor the audit trail may contain the password.
	rows, err := f.db.Query(`SELECT failure FROM withdrawal_attempts`)
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var failure string
		if err := rows.Scan(&failure); err != nil {
			t.Fatalf("scan error = %v", err)
		}
		if failure == password {
			t.Error("withdrawal attempt stored the password")
		}
	}

	auditRows, err := f.db.Query(`SELECT detail FROM audit_log`)
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	defer auditRows.Close()
	for auditRows.Next() {
		var detail string
		if err := auditRows.Scan(&detail); err != nil {
			t.Fatalf("scan error = %v", err)
		}
		if strings.Contains(detail, password) {
			t.Error("audit log stored the password")
		}
	}
}

func TestBalance(t *testing.T) {
	f := setupWithdrawalTest(t, &custodianStub{})

	balance, err := f.service.Balance()
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance.Available != 125000 || balance.Currency != "EUR" {
		t.Errorf("unexpected balance: %+v", balance)
	}
}

func TestRecent_DefaultLimit(t *testing.T) {
	f := setupWithdrawalTest(t, &custodianStub{})

	attempts, err := f.service.Recent(0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(attempts) != 0 {
		t.Errorf("Recent() returned %d attempts, want 0", len(attempts))
	}
}
