package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/database/mongoclient"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/keys"
	"github.com/rentable-xyz/goapi/service/cache"
	"github.com/rentable-xyz/goapi/service/cache/provider"
	"github.com/rentable-xyz/goapi/service/cache/provider/compound"
	"github.com/rentable-xyz/goapi/service/cache/provider/primitive"
	redisCache "github.com/rentable-xyz/goapi/service/cache/provider/redis"
	"github.com/rentable-xyz/goapi/service/query"
	"github.com/rentable-xyz/goapi/service/redis"
)

const allMintsKey = "all"

type impl struct {
	q         query.Mongo
	mintCache cache.Service
}

// New creates the payment mint repo. The registry is tiny and nearly
// static so reads go through a local + redis cache.
func New(q query.Mongo, redis redis.Service) domain.PaymentMintRepo {
	cacheProviders := []provider.Provider{
		primitive.NewPrimitive("paymentMint", 16),
	}

	if redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(redis))
	}

	return &impl{
		q: q,
		mintCache: cache.New(cache.ServiceConfig{
			Ttl:   time.Hour,
			Pfx:   keys.PfxPaymentMint,
			Cache: compound.NewCompound(cacheProviders),
		}),
	}
}

func (im *impl) FindOne(c bCtx.Ctx, mint domain.Address) (*domain.PaymentMint, error) {
	res := &domain.PaymentMint{}

	if err := im.mintCache.GetByFunc(c, mint.String(), res, func() (interface{}, error) {
		return im.findOne(c, mint)
	}); err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{
				"err":  err,
				"mint": mint,
			}).Error("mintCache.GetByFunc failed")
		}
		return nil, err
	}

	return res, nil
}

func (im *impl) findOne(c bCtx.Ctx, mint domain.Address) (*domain.PaymentMint, error) {
	res := &domain.PaymentMint{}
	qry, err := mongoclient.MakeBsonM(&domain.PaymentMintId{Mint: mint})
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := im.q.FindOne(c, domain.TablePaymentMints, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindAll(c bCtx.Ctx) ([]*domain.PaymentMint, error) {
	res := &[]*domain.PaymentMint{}

	if err := im.mintCache.GetByFunc(c, allMintsKey, res, func() (interface{}, error) {
		mints := []*domain.PaymentMint{}
		if err := im.q.Search(c, domain.TablePaymentMints, 0, 0, "mint", bson.M{}, &mints); err != nil {
			c.WithField("err", err).Error("q.Search failed")
			return nil, err
		}
		return &mints, nil
	}); err != nil {
		c.WithField("err", err).Error("mintCache.GetByFunc failed")
		return nil, err
	}

	return *res, nil
}

func (im *impl) Upsert(c bCtx.Ctx, mint *domain.PaymentMint) error {
	selector, err := mongoclient.MakeBsonM(mint.ToId())
	if err != nil {
		c.WithField("err", err).Error("failed to make bson.M")
		return err
	}
	if err := im.q.Upsert(c, domain.TablePaymentMints, selector, mint); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  mint.ToId(),
		}).Error("failed to upsert")
		return err
	}

	for _, key := range []string{mint.Mint.String(), allMintsKey} {
		if err := im.mintCache.Del(c, key); err != nil && err != cache.ErrNotFound {
			c.WithFields(log.Fields{
				"err": err,
				"key": key,
			}).Warn("mintCache.Del failed")
		}
	}
	return nil
}
