package service

import (
	"league-service/internal/config"
	"league-service/internal/service/game"
	"league-service/internal/service/player"
	"league-service/internal/service/ruleset"
	"league-service/internal/service/season"
	"league-service/internal/service/standing"
	"league-service/internal/service/tournament"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Player     *player.Service
	Season     *season.Service
	Tournament *tournament.Service
	Ruleset    *ruleset.Service
	Game       *game.Service
	Standing   *standing.Service
}

// NewContainer wires the services; rdb may be nil.
func NewContainer(db *gorm.DB, rdb *redis.Client, conf config.GamesConfig) *Container {
	players := player.NewService(db, conf.SearchLimit)
	rulesets := ruleset.NewService(db, rdb, conf.RulesetCacheTTL())
	return &Container{
		Player:     players,
		Season:     season.NewService(db),
		Tournament: tournament.NewService(db),
		Ruleset:    rulesets,
		Game:       game.NewService(db, rdb, rulesets, players, conf.SubmitLockTTL()),
		Standing:   standing.NewService(db),
	}
}
