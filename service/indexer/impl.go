package indexer

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/rentable-xyz/goapi/base/backoff"
	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
)

const (
	bearerKey = "X-API-KEY"

	backoffStart = 200 * time.Millisecond
	backoffLimit = 2 * time.Second
)

func NewClient(cfg *ClientCfg) tokenmanager.Source {
	return &client{
		client:  cfg.HttpClient,
		timeout: cfg.Timeout,
		baseUrl: cfg.BaseUrl,
		apikey:  cfg.Apikey,
		retries: cfg.Retries,
	}
}

type client struct {
	client  http.Client
	timeout time.Duration
	baseUrl string
	apikey  string
	retries int
}

func (c *client) Fetch(ctx bCtx.Ctx, tokenManager domain.Address) (*tokenmanager.TokenData, error) {
	url := fmt.Sprintf("%s/v1/tokenManagers/%s", c.baseUrl, tokenManager)

	var data []byte
	var err error
	bo := backoff.NewExponential(backoffStart, backoffLimit)
	for attempt := 0; ; attempt++ {
		data, err = c.get(ctx, url)
		if err == nil || err == domain.ErrNotFound {
			break
		}
		if attempt >= c.retries {
			ctx.WithFields(log.Fields{
				"url": url,
				"err": err,
			}).Error("c.get failed")
			return nil, err
		}
		if err := bo.Backoff(ctx); err != nil {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	resp := tokenmanager.TokenData{}
	if err := json.Unmarshal(data, &resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	return &resp, nil
}

func (c *client) get(ctx bCtx.Ctx, url string) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	req.Header.Set(bearerKey, c.apikey)
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return body, nil
}
