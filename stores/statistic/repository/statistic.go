package repository

import (
	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/database/mongoclient"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/statistic"
	"github.com/rentable-xyz/goapi/service/query"
)

type statisticMongoRepo struct {
	q query.Mongo
}

func New(q query.Mongo) statistic.Repo {
	return &statisticMongoRepo{
		q: q,
	}
}

func (r *statisticMongoRepo) FindOne(ctx bCtx.Ctx, projectId string) (*statistic.ProjectStats, error) {
	stats := &statistic.ProjectStats{}
	qry, err := mongoclient.MakeBsonM(&statistic.ProjectStatsId{ProjectId: projectId})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := r.q.FindOne(ctx, domain.TableStatistics, qry, stats); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return stats, nil
}

func (r *statisticMongoRepo) Upsert(ctx bCtx.Ctx, s *statistic.ProjectStats) error {
	selector, err := mongoclient.MakeBsonM(s.ToId())
	if err != nil {
		ctx.WithField("err", err).Error("failed to make bson.M")
		return err
	}
	if err := r.q.Upsert(ctx, domain.TableStatistics, selector, s); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  s.ToId(),
		}).Error("failed to upsert")
		return err
	}
	return nil
}
