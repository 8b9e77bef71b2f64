package transaction

import (
	"errors"
	"net/http"
	"time"
)

var (
	ErrStatusCodeNotOk   = errors.New("http.status != 200")
	ErrTransactionFailed = errors.New("transaction failed on chain")
)

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	BaseUrl    string
	Apikey     string
}

type submitResp struct {
	TxSignature string `json:"txSignature"`
	Err         string `json:"error"`
}
