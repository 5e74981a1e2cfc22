package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"
)

const defaultTimeout = 30 * time.Second

type HttpCallback func(*http.Response, error) error

func doGetRequest(ctx context.Context, httpClient *http.Client, reqUrl string, params, headers map[string]interface{}, cb HttpCallback) error {
	p := url.Values{}
	for k, v := range params {
		p.Add(k, fmt.Sprintf("%v", v))
	}
	// 标准化url
	parsedUrl, err := url.Parse(reqUrl)
	if err != nil {
		return err
	}
	parsedUrl.Path = path.Clean(parsedUrl.Path)
	parsedUrl.RawQuery = p.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedUrl.String(), nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, fmt.Sprintf("%v", v))
	}
	return cb(httpClient.Do(req))
}

func getCallBackFunc(fn func(resp *http.Response) error) HttpCallback {
	return func(r *http.Response, err error) error {
		if err != nil {
			return err
		}
		defer r.Body.Close()
		return fn(r)
	}
}
