package transaction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/domain/rental"
)

const (
	bearerKey = "X-API-KEY"
)

func NewClient(cfg *ClientCfg) rental.TransactionClient {
	return &client{
		client:  cfg.HttpClient,
		timeout: cfg.Timeout,
		baseUrl: cfg.BaseUrl,
		apikey:  cfg.Apikey,
	}
}

type client struct {
	client  http.Client
	timeout time.Duration
	baseUrl string
	apikey  string
}

func (c *client) SubmitClaim(ctx bCtx.Ctx, req *rental.SubmitClaimRequest) (*rental.SubmitResult, error) {
	url := fmt.Sprintf("%s/v1/claim", c.baseUrl)
	data, err := c.post(ctx, url, req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.post failed")
		return nil, err
	}

	resp := submitResp{}
	if err := json.Unmarshal(data, &resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	if resp.Err != "" {
		ctx.WithField("err", resp.Err).Error("claim transaction failed")
		return nil, xerrors.Errorf("%s: %w", resp.Err, ErrTransactionFailed)
	}
	return &rental.SubmitResult{TxSignature: resp.TxSignature}, nil
}

func (c *client) SubmitRevoke(ctx bCtx.Ctx, req *rental.SubmitRevokeRequest) (*rental.SubmitResult, error) {
	url := fmt.Sprintf("%s/v1/revoke", c.baseUrl)
	data, err := c.post(ctx, url, req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.post failed")
		return nil, err
	}

	resp := submitResp{}
	if err := json.Unmarshal(data, &resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	if resp.Err != "" {
		ctx.WithField("err", resp.Err).Error("revoke transaction failed")
		return nil, xerrors.Errorf("%s: %w", resp.Err, ErrTransactionFailed)
	}
	return &rental.SubmitResult{TxSignature: resp.TxSignature}, nil
}

func (c *client) post(ctx bCtx.Ctx, url string, body interface{}) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		ctx.WithField("err", err).Error("json.Marshal failed")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
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
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return data, nil
}
