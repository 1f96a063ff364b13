package model

import (
	"time"

	"gorm.io/datatypes"
)

// 1. League entities

type Player struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:128;not null;index" json:"name"`
	Nickname    string    `gorm:"size:64;index" json:"nickname"`
	CountryCode string    `gorm:"size:2" json:"countryCode"`
	LeagueCode  string    `gorm:"size:32;index" json:"leagueCode,omitempty"`
	Status      string    `gorm:"default:active;not null" json:"status"` // active/inactive
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Season struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"size:128;not null;unique" json:"name"`
	StartsOn  time.Time  `json:"startsOn"`
	EndsOn    *time.Time `json:"endsOn,omitempty"`
	Status    string     `gorm:"default:open;not null" json:"status"` // open/closed
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Tournament struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	SeasonID  int64      `gorm:"index;not null" json:"seasonId"`
	RulesetID int64      `gorm:"not null" json:"rulesetId"`
	Name      string     `gorm:"size:128;not null" json:"name"`
	Venue     string     `gorm:"size:128" json:"venue"`
	StartsOn  time.Time  `json:"startsOn"`
	EndsOn    *time.Time `json:"endsOn,omitempty"`
	Status    string     `gorm:"default:scheduled;not null" json:"status"` // scheduled/running/finished
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// 2. Rules

// Ruleset stores bonus values in k (thousands of points); InPoints and
// OutPoints are raw table points.
type Ruleset struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:128;not null;unique" json:"name"`
	InPoints  int       `gorm:"not null" json:"inPoints"`
	OutPoints int       `gorm:"not null" json:"outPoints"`
	UmaFirst  float64   `json:"umaFirst"`
	UmaSecond float64   `json:"umaSecond"`
	UmaThird  float64   `json:"umaThird"`
	UmaFourth *float64  `json:"umaFourth"` // nil for sanma
	Oka       float64   `json:"oka"`
	Chonbo    float64   `json:"chonbo"`
	Sanma     bool      `json:"sanma"`
	Status    string    `gorm:"default:enabled" json:"status"` // enabled/disabled
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// 3. Games

type Game struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TournamentID   int64          `gorm:"uniqueIndex:idx_game_day_number;not null" json:"tournamentId"`
	PlayedOn       time.Time      `gorm:"uniqueIndex:idx_game_day_number;type:date;not null" json:"playedOn"`
	GameNumber     int            `gorm:"uniqueIndex:idx_game_day_number;not null" json:"gameNumber"`
	RulesetID      int64          `gorm:"not null" json:"rulesetId"`
	RiichiFloating int            `gorm:"default:0" json:"riichiFloating"`
	ImageURL       string         `gorm:"size:512" json:"imageUrl"`
	SnapshotJSON   datatypes.JSON `gorm:"type:jsonb" json:"snapshot,omitempty"` // ruleset + settlement at submit time
	Results        []GameResult   `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"results,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type GameResult struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID      int64   `gorm:"index;not null" json:"gameId"`
	Seat        int     `gorm:"not null" json:"seat"`
	PlayerID    *int64  `gorm:"index" json:"playerId"`
	Wind        string  `gorm:"size:8" json:"wind"`
	OorasuScore int     `json:"oorasuScore"`
	GameScore   int     `json:"gameScore"`
	Chonbo      int     `json:"chonbo"`
	Uma         float64 `json:"uma"`
	Oka         float64 `json:"oka"`
	FinalScore  float64 `json:"finalScore"` // k, 1 decimal
	FinalPoints int64   `json:"finalPoints"`
	Position    int     `json:"position"`
}
