package repository

import (
	"time"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/database/mongoclient"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/account"
	"github.com/rentable-xyz/goapi/service/cache"
	"github.com/rentable-xyz/goapi/service/cache/provider"
	"github.com/rentable-xyz/goapi/service/cache/provider/compound"
	"github.com/rentable-xyz/goapi/service/cache/provider/primitive"
	redisCache "github.com/rentable-xyz/goapi/service/cache/provider/redis"
	"github.com/rentable-xyz/goapi/service/query"
	"github.com/rentable-xyz/goapi/service/redis"
)

type impl struct {
	query        query.Mongo
	accountCache cache.Service
}

// New creates new account repo
func New(query query.Mongo, redis redis.Service) account.Repo {
	cacheProviders := []provider.Provider{
		primitive.NewPrimitive("account", 128),
	}

	if redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(redis))
	}

	return &impl{
		query: query,
		accountCache: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   "account",
			Cache: compound.NewCompound(cacheProviders),
		}),
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	res := &account.Account{}

	if err := im.accountCache.GetByFunc(c, address.String(), res, func() (interface{}, error) {
		return im.get(c, address)
	}); err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{
				"err":     err,
				"address": address,
			}).Error("accountCache.GetByFunc failed")
		}
		return nil, err
	}

	return res, nil
}

func (im *impl) get(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	a := &account.Account{}
	qry, err := mongoclient.MakeBsonM(&account.Account{Address: address})
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := im.query.FindOne(c, domain.TableAccounts, qry, a); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("find account failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) Insert(c ctx.Ctx, a *account.Account) error {
	if err := im.query.Insert(c, domain.TableAccounts, a); err != nil {
		c.WithFields(log.Fields{
			"address": a.Address,
			"err":     err,
		}).Error("insert account failed")
		return err
	}
	return nil
}

func (im *impl) Update(c ctx.Ctx, address domain.Address, updater *account.Updater) error {
	updaterBson, err := mongoclient.MakeBsonM(updater)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("make bsonM failed")
		return err
	}

	selector, err := mongoclient.MakeBsonM(&account.Account{Address: address})
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.query.Patch(c, domain.TableAccounts, selector, updaterBson); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("patch account failed")
		return err
	}

	if err := im.accountCache.Del(c, address.String()); err != nil && err != cache.ErrNotFound {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Warn("accountCache.Del failed")
	}
	return nil
}
