package cmd

import (
	"fmt"
	"strconv"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/config"
	"reiatsu/database"
	"reiatsu/events"
	"reiatsu/repository"
	"reiatsu/service"

	"github.com/spf13/cobra"
)

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Adjust Reiatsu balances",
}

var pointsSetCmd = &cobra.Command{
	Use:   "set <guild-id> <user-id> <points>",
	Short: "Overwrite a player's Reiatsu total",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		guildID, discordID, points, err := parsePointsArgs(args)
		if err != nil {
			return err
		}

		cfg := config.Get()
		setupLogging(cfg)

		ctx := cmd.Context()
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		cat, err := catalog.Default()
		if err != nil {
			return err
		}
		eventBus := events.NewBus()
		deps := &common.Deps{
			UowFactory: repository.NewUnitOfWorkFactory(db, eventBus),
			Catalog:    catalog.NewStaticStore(cat),
			Config:     cfg,
			Clock:      service.SystemClock(),
			Random:     service.NewRandom(),
		}

		if err := setPoints(ctx, deps, guildID, discordID, points, "set from command line"); err != nil {
			return err
		}
		eventBus.Wait()
		cmd.Printf("%s now has %d Reiatsu\n", common.FormatID(discordID), points)
		return nil
	},
}

func init() {
	pointsCmd.AddCommand(pointsSetCmd)
}

func parsePointsArgs(args []string) (guildID, discordID, points int64, err error) {
	if guildID, err = common.ParseID(args[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid guild id %q: %w", args[0], err)
	}
	if discordID, err = common.ParseID(args[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid user id %q: %w", args[1], err)
	}
	if points, err = strconv.ParseInt(args[2], 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid points %q: %w", args[2], err)
	}
	if points < 0 {
		return 0, 0, 0, fmt.Errorf("points must not be negative")
	}
	return guildID, discordID, points, nil
}
