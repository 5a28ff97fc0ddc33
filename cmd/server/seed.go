package main

import (
	"context"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/events"
	"gameportal/backend/internal/repository"
	"gameportal/backend/internal/service"

	"github.com/spf13/cobra"
)

type sampleGame struct {
	params service.GameParams
	cat    string
}

var sampleCategories = []service.CategoryParams{
	{Name: "Puzzle", Color: "#7c3aed", Icon: "puzzle"},
	{Name: "Action", Color: "#dc2626", Icon: "bolt"},
	{Name: "Arcade", Color: "#2563eb", Icon: "joystick"},
}

var sampleGames = []sampleGame{
	{cat: "puzzle", params: service.GameParams{Name: "Block Drop", Description: "Stack falling blocks into full rows.", Difficulty: "easy", Rating: 4.5, IsPopular: true, Tags: []string{"puzzle", "classic"}}},
	{cat: "action", params: service.GameParams{Name: "Star Pilot", Description: "Dodge asteroids at warp speed.", Difficulty: "hard", Rating: 3.0, Tags: []string{"action", "space"}}},
	{cat: "puzzle", params: service.GameParams{Name: "Mind Maze", Description: "Find the way out before the lights go.", Difficulty: "medium", Rating: 4.8, IsFeatured: true, IsNew: true, Tags: []string{"puzzle", "brain"}}},
	{cat: "arcade", params: service.GameParams{Name: "Snake Classic", Description: "Eat, grow, avoid your tail.", Difficulty: "easy", Rating: 4.1, IsPopular: true, Tags: []string{"arcade", "classic"}}},
}

func seedCmd() *cobra.Command {
	var withSamples bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install achievement definitions and optional sample catalog data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.close()
			return runSeed(cmd.Context(), a, withSamples)
		},
	}
	cmd.Flags().BoolVar(&withSamples, "samples", false, "also create sample categories and games")
	return cmd
}

func runSeed(ctx context.Context, a *app, withSamples bool) error {
	bus := events.NewBus(a.log)
	plays := repository.NewGormPlayRepository(a.db)
	achievements := service.NewAchievementService(repository.NewGormAchievementRepository(a.db), plays, bus, a.log)
	if err := achievements.Seed(ctx); err != nil {
		return err
	}
	a.log.Infow("achievements seeded", "count", len(service.DefaultAchievements()))
	if !withSamples {
		return nil
	}

	categoryRepo := repository.NewGormCategoryRepository(a.db)
	categories := service.NewCategoryService(categoryRepo, bus, a.log)
	games := service.NewGameService(repository.NewGormGameRepository(a.db), categoryRepo, bus, a.log)

	ids := map[string]uint{}
	for _, p := range sampleCategories {
		c, err := categories.Create(ctx, p)
		if apperrors.HasCode(err, apperrors.ErrCodeConflict) {
			if c, err = categories.Get(ctx, service.MakeSlug(p.Name)); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		ids[c.Slug] = c.ID
	}

	for _, g := range sampleGames {
		g.params.CategoryID = ids[g.cat]
		_, err := games.Create(ctx, g.params)
		if err != nil && !apperrors.HasCode(err, apperrors.ErrCodeConflict) {
			return err
		}
	}
	a.log.Infow("sample catalog seeded", "categories", len(sampleCategories), "games", len(sampleGames))
	return nil
}
