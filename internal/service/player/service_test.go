package player_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"league-service/internal/model"
	"league-service/internal/service/player"
	appErr "league-service/pkg/errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newPlayerService(t *testing.T) (*gorm.DB, *player.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Player{}); err != nil {
		t.Fatalf("failed to migrate player model: %v", err)
	}
	return db, player.NewService(db, 5)
}

func seedPlayers(t *testing.T, db *gorm.DB) []model.Player {
	t.Helper()

	players := []model.Player{
		{Name: "Lucía Fernández", Nickname: "Lu", CountryCode: "AR", Status: "active"},
		{Name: "Martín Sosa", Nickname: "Tincho", CountryCode: "AR", Status: "active"},
		{Name: "Ana Martins", Nickname: "Aninha", CountryCode: "BR", Status: "active"},
		{Name: "Mario Rossi", Nickname: "Super", CountryCode: "IT", Status: "inactive"},
	}
	if err := db.Create(&players).Error; err != nil {
		t.Fatalf("seed players failed: %v", err)
	}
	return players
}

func TestCreatePlayer(t *testing.T) {
	ctx := context.Background()
	_, svc := newPlayerService(t)

	created, err := svc.Create(ctx, player.MutationParams{
		Name:        "  Sofía Díaz ",
		CountryCode: "uy",
	})
	if err != nil {
		t.Fatalf("create player failed: %v", err)
	}
	if created.ID == 0 || created.Name != "Sofía Díaz" || created.CountryCode != "UY" || created.Status != "active" {
		t.Fatalf("unexpected player: %+v", created)
	}
}

func TestCreatePlayerValidation(t *testing.T) {
	ctx := context.Background()
	_, svc := newPlayerService(t)

	cases := []player.MutationParams{
		{Name: " "},
		{Name: "X", CountryCode: "ARG"},
		{Name: "X", Status: "banned"},
	}
	for _, params := range cases {
		if _, err := svc.Create(ctx, params); !errors.Is(err, appErr.ErrInvalidPlayer) {
			t.Fatalf("expected ErrInvalidPlayer for %+v, got %v", params, err)
		}
	}
}

func TestListPlayersFilters(t *testing.T) {
	ctx := context.Background()
	db, svc := newPlayerService(t)
	seedPlayers(t, db)

	result, err := svc.List(ctx, player.ListFilter{CountryCode: "ar"})
	if err != nil {
		t.Fatalf("list players failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 argentinian players, got %d", result.Total)
	}

	result, err = svc.List(ctx, player.ListFilter{Status: "inactive"})
	if err != nil {
		t.Fatalf("list players failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Mario Rossi" {
		t.Fatalf("unexpected inactive players: %+v", result.Items)
	}

	result, err = svc.List(ctx, player.ListFilter{Page: 2, Size: 3})
	if err != nil {
		t.Fatalf("list players failed: %v", err)
	}
	if result.Total != 4 || len(result.Items) != 1 {
		t.Fatalf("expected last page with 1 item, got total=%d items=%d", result.Total, len(result.Items))
	}
}

func TestSearchPlayers(t *testing.T) {
	ctx := context.Background()
	db, svc := newPlayerService(t)
	seedPlayers(t, db)

	found, err := svc.Search(ctx, "mar", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	names := make([]string, 0, len(found))
	for _, p := range found {
		names = append(names, p.Name)
	}
	// inactive Mario is excluded, prefix match on Martín comes first
	want := []string{"Martín Sosa", "Ana Martins"}
	if !slices.Equal(names, want) {
		t.Fatalf("search returned %v, want %v", names, want)
	}

	empty, err := svc.Search(ctx, "   ", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no results for a blank query, got %d", len(empty))
	}
}

func TestUpdatePlayerNotFound(t *testing.T) {
	ctx := context.Background()
	_, svc := newPlayerService(t)

	_, err := svc.Update(ctx, 42, player.MutationParams{Name: "ghost"})
	if !errors.Is(err, appErr.ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestMissingPlayers(t *testing.T) {
	ctx := context.Background()
	db, svc := newPlayerService(t)
	players := seedPlayers(t, db)

	missing, err := svc.Missing(ctx, []int64{players[0].ID, 999, players[2].ID, 1000})
	if err != nil {
		t.Fatalf("missing lookup failed: %v", err)
	}
	if !slices.Equal(missing, []int64{999, 1000}) {
		t.Fatalf("unexpected missing ids %v", missing)
	}
}
