// Package client calls the xray rpc methods of a router over http.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/proxy/manager"
)

// 响应体上限
const maxReplyBytes = 1 << 20

// Client implements the services the xray view depends on against a remote http server.
type Client struct {
	host       string
	token      string
	httpClient *http.Client
}

func NewClient(host, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		host:       strings.TrimRight(host, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) call(ctx context.Context, method string, params map[string]interface{}, reply interface{}) error {
	headers := map[string]interface{}{}
	if c.token != "" {
		headers["token"] = c.token
	}
	cb := func(resp *http.Response) error {
		d, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return &common.RPCError{Method: method, Code: resp.StatusCode, Msg: strings.TrimSpace(string(d))}
		}
		if err := json.Unmarshal(d, reply); err != nil {
			return fmt.Errorf("decode %s reply fail > %v", method, err)
		}
		return nil
	}
	reqUrl := fmt.Sprintf("%s/%s", c.host, method)
	return doGetRequest(ctx, c.httpClient, reqUrl, params, headers, getCallBackFunc(cb))
}

func (c *Client) ListStatus(ctx context.Context, name string) (dat.ListStatusReply, error) {
	reply := dat.ListStatusReply{}
	err := c.call(ctx, common.ListStatusURI, map[string]interface{}{"name": name}, &reply)
	return reply, err
}

// Status applies the listStatus filter: values on success, the default record otherwise.
func (c *Client) Status(ctx context.Context, name string) (dat.Status, error) {
	reply, err := c.ListStatus(ctx, name)
	if err != nil {
		return dat.DefaultStatus(), err
	}
	return dat.FilterListStatus(reply), nil
}

func (c *Client) UpdateDataFile(ctx context.Context, name, url string) (dat.UpdateReply, error) {
	reply := dat.UpdateReply{}
	err := c.call(ctx, common.UpdateDataFileURI, map[string]interface{}{"name": name, "url": url}, &reply)
	return reply, err
}

func (c *Client) RunningStatus(ctx context.Context) (manager.RunningStatusReply, error) {
	reply := manager.RunningStatusReply{}
	err := c.call(ctx, common.RunningStatusURI, nil, &reply)
	return reply, err
}

func (c *Client) Version(ctx context.Context) (manager.VersionReply, error) {
	reply := manager.VersionReply{}
	err := c.call(ctx, common.VersionURI, nil, &reply)
	return reply, err
}
