package indexer

import (
	"errors"
	"net/http"
	"time"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
)

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	BaseUrl    string
	Apikey     string
	// Retries is the number of extra attempts on a failed fetch.
	// Zero disables retrying.
	Retries int
}
