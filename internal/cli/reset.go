package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/services"
)

var errResetNotConfirmed = errors.New("refusing to clear data without --yes")

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the profile, statistics and history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return errResetNotConfirmed
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			svc := services.NewStatsService(st.repos, clock.Real(), nil)
			if err := svc.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Confirm clearing all data")
	return cmd
}
