package sqlc

import (
	"context"
	"net"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sqlc-dev/pqtype"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

func testServerIp() pqtype.Inet {
	return pqtype.Inet{
		IPNet: net.IPNet{IP: net.ParseIP("10.0.0.7").To4(), Mask: net.CIDRMask(32, 32)},
		Valid: true,
	}
}

func newMockAnalytics(t *testing.T) (*AnalyticsManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewDbManager(New(db), testServerIp()).Analytics, mock
}

func TestRecordGameStarted(t *testing.T) {
	tests := []struct {
		mode  mb.GameMode
		query string
	}{
		{mode: mb.GameModeStandard, query: incrementStandardGamesStartedCount},
		{mode: mb.GameModeTraining, query: incrementTrainingGamesStartedCount},
	}

	for _, test := range tests {
		t.Run(string(test.mode), func(t *testing.T) {
			analytics, mock := newMockAnalytics(t)
			mock.ExpectExec(regexp.QuoteMeta(test.query)).
				WithArgs(sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))

			if err := analytics.RecordGameStarted(context.Background(), test.mode); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}

	analytics, mock := newMockAnalytics(t)
	if err := analytics.RecordGameStarted(context.Background(), mb.GameModeNone); err == nil {
		t.Fatal("expected error for a game without mode")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRecordGameFinished(t *testing.T) {
	tests := []struct {
		victor mb.Player
		query  string
	}{
		{victor: mb.PlayerHuman, query: incrementHumanVictoriesCount},
		{victor: mb.PlayerComputer, query: incrementComputerVictoriesCount},
	}

	for _, test := range tests {
		t.Run(string(test.victor), func(t *testing.T) {
			analytics, mock := newMockAnalytics(t)
			mock.ExpectExec(regexp.QuoteMeta(test.query)).
				WithArgs(sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))

			if err := analytics.RecordGameFinished(context.Background(), test.victor); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}

	analytics, _ := newMockAnalytics(t)
	if err := analytics.RecordGameFinished(context.Background(), mb.PlayerNone); err == nil {
		t.Fatal("expected error for a game without victor")
	}
}

func TestGetServerAnalytics(t *testing.T) {
	analytics, mock := newMockAnalytics(t)

	rows := sqlmock.NewRows([]string{
		"server_ip", "standard_games_started", "training_games_started", "human_victories", "computer_victories",
	}).AddRow("10.0.0.7/32", 12, 3, 5, 7)
	mock.ExpectQuery(regexp.QuoteMeta(getServerAnalytics)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	got, err := analytics.GetServerAnalytics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got.StandardGamesStarted != 12 || got.TrainingGamesStarted != 3 || got.HumanVictories != 5 || got.ComputerVictories != 7 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if !got.ServerIp.Valid || !got.ServerIp.IPNet.IP.Equal(net.ParseIP("10.0.0.7")) {
		t.Fatalf("unexpected server ip: %v", got.ServerIp)
	}
}
