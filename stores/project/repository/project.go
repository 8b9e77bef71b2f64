package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/database/mongoclient"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/project"
	"github.com/rentable-xyz/goapi/service/query"
)

type projectMongoRepo struct {
	q query.Mongo
}

func New(q query.Mongo) project.Repo {
	return &projectMongoRepo{
		q: q,
	}
}

func (r *projectMongoRepo) FindOne(ctx bCtx.Ctx, id string) (*project.Config, error) {
	cfg := &project.Config{}
	qry, err := mongoclient.MakeBsonM(&project.ConfigId{Id: id})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := r.q.FindOne(ctx, domain.TableProjects, qry, cfg); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return cfg, nil
}

func (r *projectMongoRepo) FindAll(ctx bCtx.Ctx) ([]*project.Config, error) {
	res := []*project.Config{}
	if err := r.q.Search(ctx, domain.TableProjects, 0, 0, "id", bson.M{}, &res); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (r *projectMongoRepo) Upsert(ctx bCtx.Ctx, cfg *project.Config) error {
	selector, err := mongoclient.MakeBsonM(cfg.ToId())
	if err != nil {
		ctx.WithField("err", err).Error("failed to make bson.M")
		return err
	}
	if err := r.q.Upsert(ctx, domain.TableProjects, selector, cfg); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  cfg.ToId(),
		}).Error("failed to upsert")
		return err
	}
	return nil
}
