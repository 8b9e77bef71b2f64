package statistic

import (
	"time"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
)

// ProjectStats are the all time rental stats of one project
type ProjectStats struct {
	ProjectId          string    `bson:"projectId" json:"projectId"`
	TotalRentals       int64     `bson:"totalRentals" json:"totalRentals"`
	TotalRentalSeconds int64     `bson:"totalRentalSeconds" json:"totalRentalSeconds"`
	TotalRentalVolume  float64   `bson:"totalRentalVolume" json:"totalRentalVolume"`
	UpdatedAt          time.Time `bson:"updatedAt,omitempty" json:"-"`
}

type ProjectStatsId struct {
	ProjectId string `bson:"projectId"`
}

func (s *ProjectStats) ToId() ProjectStatsId {
	return ProjectStatsId{ProjectId: s.ProjectId}
}

type Repo interface {
	FindOne(ctx bCtx.Ctx, projectId string) (*ProjectStats, error)
	Upsert(ctx bCtx.Ctx, s *ProjectStats) error
}

type UseCase interface {
	Get(ctx bCtx.Ctx, projectId string) (*ProjectStats, error)
	Refresh(ctx bCtx.Ctx, projectId string) error
	RefreshAll(ctx bCtx.Ctx) error
}
