package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/database/mongoclient"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
	"github.com/rentable-xyz/goapi/service/query"
)

func makeFindQuery(optFns ...tokenmanager.FindAllOptionsFunc) (bson.M, error) {
	opts, err := tokenmanager.ParseFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	qry := bson.M{}

	if opts.ProjectId != nil {
		qry["tokenManager.projectId"] = *opts.ProjectId
	}

	if opts.States != nil {
		qry["tokenManager.state"] = bson.M{"$in": *opts.States}
	}

	if opts.Issuer != nil {
		qry["tokenManager.issuer"] = *opts.Issuer
	}

	if opts.RecipientOwner != nil {
		qry["recipientOwner"] = *opts.RecipientOwner
	}

	if opts.ClaimApprover != nil {
		qry["claimApprover.paymentMint"] = *opts.ClaimApprover
	}

	return qry, nil
}

type tokenManagerMongoRepo struct {
	q query.Mongo
}

func New(q query.Mongo) tokenmanager.Repo {
	return &tokenManagerMongoRepo{
		q: q,
	}
}

func (r *tokenManagerMongoRepo) FindOne(ctx bCtx.Ctx, address domain.Address) (*tokenmanager.TokenData, error) {
	tokenData := &tokenmanager.TokenData{}
	qry, err := mongoclient.MakeBsonM(&tokenmanager.TokenDataId{Address: address})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := r.q.FindOne(ctx, domain.TableTokenManagers, qry, tokenData); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return tokenData, nil
}

func (r *tokenManagerMongoRepo) FindAll(ctx bCtx.Ctx, optFns ...tokenmanager.FindAllOptionsFunc) ([]*tokenmanager.TokenData, error) {
	res := []*tokenmanager.TokenData{}

	qry, err := makeFindQuery(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("makeFindQuery failed")
		return nil, err
	}

	if err := r.q.Search(ctx, domain.TableTokenManagers, 0, 0, "tokenManager.stateChangedAt", qry, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (r *tokenManagerMongoRepo) Count(ctx bCtx.Ctx, optFns ...tokenmanager.FindAllOptionsFunc) (int, error) {
	qry, err := makeFindQuery(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("makeFindQuery failed")
		return 0, err
	}

	cnt, err := r.q.Count(ctx, domain.TableTokenManagers, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.Count failed")
		return 0, err
	}
	return cnt, nil
}

func (r *tokenManagerMongoRepo) Upsert(ctx bCtx.Ctx, tokenData *tokenmanager.TokenData) error {
	selector, err := mongoclient.MakeBsonM(tokenData.ToId())
	if err != nil {
		ctx.WithField("err", err).Error("failed to make bson.M")
		return err
	}
	if err := r.q.Upsert(ctx, domain.TableTokenManagers, selector, tokenData); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  tokenData.ToId(),
		}).Error("failed to upsert")
		return err
	}
	return nil
}
