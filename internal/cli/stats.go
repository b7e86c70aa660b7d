package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/services"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show game statistics and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			svc := services.NewStatsService(st.repos, clock.Real(), loc)
			view, err := svc.GetStatistics(cmd.Context())
			if err != nil {
				return err
			}
			achs, err := svc.GetAchievements(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), view, achs)
		},
	}
}

func printStats(out io.Writer, v models.StatisticsView, achs []models.Achievement) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "STATISTICS")
	fmt.Fprintf(w, "Games played\t%d\n", v.TotalGamesPlayed)
	fmt.Fprintf(w, "Games won\t%d\n", v.TotalGamesWon)
	fmt.Fprintf(w, "Win rate\t%.0f%%\n", v.WinRate*100)
	fmt.Fprintf(w, "Best score\t%d\n", v.BestScore)
	fmt.Fprintf(w, "Average score\t%.1f\n", v.AverageScore)
	fmt.Fprintf(w, "Average completion\t%.1fs\n", v.AverageCompletionTime)
	fmt.Fprintf(w, "Current streak\t%d\n", v.CurrentStreak)
	fmt.Fprintf(w, "Longest streak\t%d\n", v.LongestStreak)
	fmt.Fprintf(w, "Days in a row\t%d\n", v.ConsecutiveDaysPlayed)
	fmt.Fprintf(w, "Time played\t%v\n", time.Duration(v.TotalTimePlayed)*time.Second)
	fmt.Fprintf(w, "Focus time\t%v\n", time.Duration(v.TotalFocusTime)*time.Second)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ACHIEVEMENTS")
	points := 0
	for _, a := range achs {
		status := fmt.Sprintf("%3.0f%%", a.Progress*100)
		if a.Unlocked() {
			status = "unlocked " + a.UnlockedAt.Format(time.DateOnly)
			points += a.Type.Points()
		}
		fmt.Fprintf(w, "%s\t%d pts\t%s\n", a.Type.Title(), a.Type.Points(), status)
	}
	fmt.Fprintf(w, "Total points\t%d\t\n", points)
	return w.Flush()
}
