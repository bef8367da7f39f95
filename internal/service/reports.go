package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/engine"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/models"
)

const reportLimit = 15

func (s *KickerService) GetRankingsReport(ctx context.Context, chatID int64, team string) (string, error) {
	scoring, err := s.Scoring(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("error loading scoring: %w", err)
	}
	week, err := s.CurrentWeek()
	if err != nil {
		return "", err
	}
	views, err := s.Rankings(ctx, scoring, RankingFilter{Team: team, HideInactive: true, Limit: reportLimit})
	if err != nil {
		return "", fmt.Errorf("error building rankings: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎯 *Week %d Kicker Rankings* (%s)\n\n", week, scoring.Name))
	if len(views) == 0 {
		sb.WriteString("No kickers match.")
		return sb.String(), nil
	}

	for i, v := range views {
		sb.WriteString(fmt.Sprintf("%d. *%s* (%s vs %s) - %d pts\n", i+1, v.Name, v.Team, v.Opponent, v.Projection))
		sb.WriteString(fmt.Sprintf("   Grade: %.0f | Avg: %.1f | Season: %.1f\n", v.Grade, v.AvgPoints, v.SeasonPoints))
		if owner := ownershipLabel(v); owner != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", owner))
		}
	}

	return sb.String(), nil
}

func (s *KickerService) GetLeadersReport(ctx context.Context, chatID int64) (string, error) {
	scoring, err := s.Scoring(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("error loading scoring: %w", err)
	}
	views, err := s.Leaders(ctx, scoring, reportLimit)
	if err != nil {
		return "", fmt.Errorf("error building leaders: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📈 *Season Leaders* (%s)\n\n", scoring.Name))
	for i, v := range views {
		sb.WriteString(fmt.Sprintf("%d. *%s* (%s) - %.1f pts in %d games\n", i+1, v.Name, v.Team, v.SeasonPoints, v.Games))
	}
	if len(views) == 0 {
		sb.WriteString("No season data yet.")
	}
	return sb.String(), nil
}

func (s *KickerService) GetExplainReport(ctx context.Context, chatID int64, query string) (string, error) {
	scoring, err := s.Scoring(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("error loading scoring: %w", err)
	}
	ex, err := s.Explain(ctx, scoring, query)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	v := ex.View
	sb.WriteString(fmt.Sprintf("*%s* (%s vs %s)\n", v.Name, v.Team, v.Opponent))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")

	sb.WriteString("*Season points*\n")
	writeBreakdown(&sb, ex.Season)
	if v.SeasonPoints != ex.Season.Total {
		sb.WriteString(fmt.Sprintf("  Feed total used: %.1f\n", v.SeasonPoints))
	}

	p := ex.Projection
	sb.WriteString("\n*Projection*\n")
	if p.Bye {
		sb.WriteString("  No game this week: 0 pts\n")
	} else {
		sb.WriteString(fmt.Sprintf("  Avg %.2f x grade %.0f/%.0f = base %.2f\n", p.AvgPoints, ex.Inputs.MatchupGrade, engine.NeutralGrade, p.Base))
		sb.WriteString(fmt.Sprintf("  Offense %.2f | Defense %.2f (scale %.2f)\n", p.Offense, p.Defense, p.ScaleFactor))
		sb.WriteString(fmt.Sprintf("  Weighted %.2f", p.Weighted))
		if p.UsedBase {
			sb.WriteString(" (too low, using base)")
		}
		sb.WriteString(fmt.Sprintf("\n  Projected: *%d pts*\n", p.Points))
	}

	sb.WriteString(fmt.Sprintf("\n*This week* (%s)\n", strings.ToLower(v.Status.String())))
	sb.WriteString(fmt.Sprintf("  Live: %.1f pts (%s)\n", v.LivePoints, v.LiveSource))

	if len(ex.History) > 0 {
		sb.WriteString("\n*Recent games*\n")
		for _, h := range ex.History {
			line := fmt.Sprintf("  Wk %d vs %s: %.1f", h.Week, h.Opponent, h.Points)
			if h.Projected != nil {
				line += fmt.Sprintf(" (proj %.0f)", *h.Projected)
			}
			sb.WriteString(line + "\n")
		}
	}

	return sb.String(), nil
}

func writeBreakdown(sb *strings.Builder, b engine.PointsBreakdown) {
	for _, bucket := range b.Buckets {
		if bucket.Makes == 0 && bucket.Misses == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s: %d made (%+.1f)", bucket.Bucket, bucket.Makes, bucket.MakePoints))
		if bucket.Misses > 0 && !b.GenericMisses {
			sb.WriteString(fmt.Sprintf(", %d missed (%+.1f)", bucket.Misses, bucket.MissPoints))
		}
		sb.WriteString("\n")
	}
	if b.GenericMisses {
		sb.WriteString(fmt.Sprintf("  Misses: %+.1f\n", b.MissPenalty))
	}
	sb.WriteString(fmt.Sprintf("  XP: %+.1f made, %+.1f missed\n", b.XPMadePoints, b.XPMissPoints))
	sb.WriteString(fmt.Sprintf("  Total: *%.1f*\n", b.Total))
}

func (s *KickerService) GetAccuracyReport(ctx context.Context, chatID int64, week int) (string, error) {
	scoring, err := s.Scoring(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("error loading scoring: %w", err)
	}
	report, err := s.Accuracy(ctx, scoring, week)
	if err != nil {
		return "", fmt.Errorf("error building accuracy report: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Week %d Projection Accuracy*\n\n", report.Week))

	sum := report.Summary
	if sum.Count == 0 {
		sb.WriteString("No games have kicked off yet.")
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("Actual: %.1f | Projected: %.1f (%+.1f)\n", sum.TotalActual, sum.TotalProjected, sum.OverallDiff))
	sb.WriteString(fmt.Sprintf("Hit rate: %d%%\n", sum.WinRate))
	sb.WriteString(fmt.Sprintf("Met: %d%% | Smash: %d%% | Bust: %d%%\n", sum.MetRate, sum.SmashRate, sum.BustRate))
	if sum.Count >= 4 {
		sb.WriteString(fmt.Sprintf("Spread: %+.1f / %+.1f / %+.1f / %+.1f / %+.1f\n", sum.Min, sum.Q1, sum.Median, sum.Q3, sum.Max))
	} else {
		sb.WriteString("Not enough games for quartiles yet.\n")
	}

	sb.WriteString("\n")
	for _, row := range report.Rows {
		sb.WriteString(fmt.Sprintf("%s %s (%s): %.1f vs %.0f\n", outcomeIcon(row.Outcome), row.Name, row.Team, row.Live, row.Projected))
	}

	return sb.String(), nil
}

func (s *KickerService) GetLiveReport(ctx context.Context, chatID int64) (string, error) {
	scoring, err := s.Scoring(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("error loading scoring: %w", err)
	}
	week, err := s.CurrentWeek()
	if err != nil {
		return "", err
	}
	views, err := s.Rankings(ctx, scoring, RankingFilter{})
	if err != nil {
		return "", fmt.Errorf("error building rankings: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *Week %d Live Kickers*\n\n", week))

	count := 0
	for _, v := range views {
		if v.Status == engine.StateUpcoming {
			continue
		}
		count++
		status := ""
		if v.Status == engine.StateFinished {
			status = " (Final)"
		}
		sb.WriteString(fmt.Sprintf("*%s* (%s): %.1f of %d proj%s\n", v.Name, v.Team, v.LivePoints, v.Projection, status))
	}
	if count == 0 {
		sb.WriteString("No games in progress.")
	}

	return sb.String(), nil
}

func (s *KickerService) GetInjuriesReport(ctx context.Context) (string, error) {
	injuries, err := s.Injuries(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("🚑 *Kicker Injury Report*\n\n")
	if len(injuries) == 0 {
		sb.WriteString("No kickers on the injury report.")
		return sb.String(), nil
	}
	for _, p := range injuries {
		sb.WriteString(fmt.Sprintf("  • %s %s - %s\n", p.Team, p.Name, p.InjuryStatus))
	}
	return sb.String(), nil
}

func (s *KickerService) GetWhoHasReport(ctx context.Context, chatID int64, query string) (string, error) {
	scoring, err := s.Scoring(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("error loading scoring: %w", err)
	}
	ex, err := s.Explain(ctx, scoring, query)
	if err != nil {
		return "", err
	}
	v := ex.View

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (K - %s)\n", v.Name, v.Team))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	switch v.Ownership {
	case models.OwnershipUnknown:
		sb.WriteString("League sync has not run yet\n")
	case models.OwnershipFree:
		sb.WriteString("Free Agent\n")
	default:
		sb.WriteString(ownershipLabel(v) + "\n")
	}
	sb.WriteString(fmt.Sprintf("\n%d pts (Projected)", v.Projection))
	return sb.String(), nil
}

func (s *KickerService) GetScoringReport(ctx context.Context, chatID int64) (string, error) {
	scoring, err := s.Scoring(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("error loading scoring: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚙️ *Scoring: %s*\n\n", scoring.Name))
	for _, key := range engine.ScoringKeys() {
		v, _ := scoring.Get(key)
		sb.WriteString(fmt.Sprintf("`%s` %g\n", key, v))
	}
	sb.WriteString("\nChange with /set <key> <value>, restore with /reset.")
	return sb.String(), nil
}

func ownershipLabel(v models.KickerView) string {
	switch v.Ownership {
	case models.OwnershipMine:
		return "✅ Your team"
	case models.OwnershipTaken:
		if v.FantasyTeam != "" {
			return "🔒 " + v.FantasyTeam
		}
		return "🔒 Rostered"
	case models.OwnershipFree:
		return "🆓 Free agent"
	}
	return ""
}

func outcomeIcon(o engine.Outcome) string {
	switch o {
	case engine.OutcomeSmash:
		return "🔥"
	case engine.OutcomeBust:
		return "🧊"
	default:
		return "✅"
	}
}
