package game

import "log/slog"

// LogValue implements slog.LogValuer so a session can be logged as one group.
func (s *Session) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("state", s.state.String()),
		slog.Duration("sim_time", s.Now()),
		slog.String("season", s.season.String()),
		slog.Int("level", s.level),
		slog.Int("energy", s.world.Player.Energy.Value()),
		slog.Int("seasons_survived", s.stats.SeasonsSurvived),
		slog.Int("nuts_eaten", s.stats.NutsEaten),
	}
	if s.cause != "" {
		attrs = append(attrs, slog.String("cause", s.cause))
	}
	return slog.GroupValue(attrs...)
}
