package stats

import (
	"context"

	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	TopicAggsAll     []model.TopicAggregate
	TopicAggsWindow  []model.TopicAggregate
}

// BuildReport loads sessions matching cfg and aggregates their topics over
// all sessions and over the last window sessions.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig, window int) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := sessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, window)
	topicAggsAll, err := st.ListTopicAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	topicAggsWindow, err := st.ListTopicAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		TopicAggsAll:     topicAggsAll,
		TopicAggsWindow:  topicAggsWindow,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
