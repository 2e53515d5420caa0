// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/shuttle/internal/model"
	"github.com/verte-zerg/shuttle/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Drills        []model.DrillAggregate
	WindowIDs     []int64
	CornersAll    []model.CornerAggregate
	CornersWindow []model.CornerAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	drills, err := st.ListDrills(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(drills) > cfg.Last {
		drills = drills[len(drills)-cfg.Last:]
	}

	allIDs := drillIDs(drills)
	windowIDs := lastDrillIDs(drills, cfg.CurveWindow)
	cornersAll, err := st.CornerAggregates(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	cornersWindow, err := st.CornerAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Drills:        drills,
		WindowIDs:     windowIDs,
		CornersAll:    cornersAll,
		CornersWindow: cornersWindow,
	}, nil
}

func drillIDs(drills []model.DrillAggregate) []int64 {
	ids := make([]int64, len(drills))
	for i, d := range drills {
		ids[i] = d.DrillID
	}
	return ids
}

func lastDrillIDs(drills []model.DrillAggregate, window int) []int64 {
	if window <= 0 || len(drills) <= window {
		return drillIDs(drills)
	}
	return drillIDs(drills[len(drills)-window:])
}
