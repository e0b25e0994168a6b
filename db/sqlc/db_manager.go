package sqlc

import (
	"time"

	"github.com/sqlc-dev/pqtype"
)

const (
	QuerierCtxTimeout = time.Second * 10
)

type DbManager struct {
	Games     *GameStore
	Analytics *AnalyticsManager
}

func NewDbManager(queries Querier, serverIp pqtype.Inet) DbManager {
	return DbManager{
		Games:     NewGameStore(queries),
		Analytics: NewAnalyticsManager(queries, serverIp),
	}
}
