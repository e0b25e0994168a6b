package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	"github.com/saeidalz13/battleship-solo/models/match"
)

// AnalyticsManager counts games per server, keyed by the server ip
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

var _ match.Analytics = (*AnalyticsManager)(nil)

func NewAnalyticsManager(queries Querier, serverIp pqtype.Inet) *AnalyticsManager {
	return &AnalyticsManager{queries: queries, serverIp: serverIp}
}

func (a *AnalyticsManager) RecordGameStarted(ctx context.Context, mode mb.GameMode) error {
	switch mode {
	case mb.GameModeStandard:
		return a.queries.IncrementStandardGamesStartedCount(ctx, a.serverIp)
	case mb.GameModeTraining:
		return a.queries.IncrementTrainingGamesStartedCount(ctx, a.serverIp)
	default:
		return cerr.ErrInvalidGameMode(string(mode))
	}
}

func (a *AnalyticsManager) RecordGameFinished(ctx context.Context, victor mb.Player) error {
	switch victor {
	case mb.PlayerHuman:
		return a.queries.IncrementHumanVictoriesCount(ctx, a.serverIp)
	case mb.PlayerComputer:
		return a.queries.IncrementComputerVictoriesCount(ctx, a.serverIp)
	default:
		return cerr.ErrUnknownVictor(string(victor))
	}
}

func (a *AnalyticsManager) GetServerAnalytics(ctx context.Context) (GameServerAnalytic, error) {
	return a.queries.GetServerAnalytics(ctx, a.serverIp)
}
