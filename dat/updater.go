package dat

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/common/log/logger"
	"github.com/xtls/xray-core/app/router"
	"golang.org/x/net/proxy"
	"google.golang.org/protobuf/proto"
)

// Updater downloads data files and replaces them on disk.
type Updater struct {
	Dir      string
	Files    FileAccess
	MaxBytes int64
	client   *http.Client
}

type UpdaterOptions struct {
	Timeout  time.Duration
	MaxBytes int64
	// socks5://host:port or http(s)://host:port, empty means direct
	Proxy string
	// overrides Proxy when set
	Transport http.RoundTripper
}

func NewUpdater(dir string, files FileAccess, opt UpdaterOptions) (*Updater, error) {
	if files == nil {
		files = OSFileAccess{}
	}
	if opt.Timeout <= 0 {
		opt.Timeout = common.DefaultUpdateTimeout
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = common.DefaultUpdateMaxBytes
	}
	var transport http.RoundTripper = opt.Transport
	if transport == nil {
		t, err := newTransport(opt.Proxy)
		if err != nil {
			return nil, err
		}
		transport = t
	}
	return &Updater{
		Dir:      dir,
		Files:    files,
		MaxBytes: opt.MaxBytes,
		client: &http.Client{
			Timeout:   opt.Timeout,
			Transport: transport,
		},
	}, nil
}

func newTransport(proxyAddr string) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyAddr == "" {
		return transport, nil
	}
	u, err := url.Parse(proxyAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid update proxy %s > %w", proxyAddr, err)
	}
	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("init socks dialer fail > %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	default:
		return nil, fmt.Errorf("unsupported update proxy scheme: %s", u.Scheme)
	}
	return transport, nil
}

// Update downloads rawURL and installs it as <Dir>/<name>.dat.
func (u *Updater) Update(ctx context.Context, name, rawURL string) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid data file name: %q", name)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("invalid url: %q", rawURL)
	}
	data, err := u.download(ctx, parsed.String())
	if err != nil {
		return err
	}
	if err := Verify(name, data); err != nil {
		return err
	}
	path := DataFilePath(u.Dir, name)
	if err := u.Files.Write(path, data); err != nil {
		return fmt.Errorf("write %s fail > %w", path, err)
	}
	logger.Info("Msg=data file updated|Name=%s|Url=%s|Size=%d", name, rawURL, len(data))
	return nil
}

func (u *Updater) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "xrayluci")
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s fail, status: %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, u.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body fail > %w", err)
	}
	if int64(len(data)) > u.MaxBytes {
		return nil, fmt.Errorf("data file exceeds %d bytes", u.MaxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response from %s", rawURL)
	}
	return data, nil
}

// Verify checks that data decodes as the routing list of a known category.
// Other names are accepted as is.
func Verify(name string, data []byte) error {
	var entries int
	switch name {
	case CategoryGeosite:
		list := &router.GeoSiteList{}
		if err := proto.Unmarshal(data, list); err != nil {
			return fmt.Errorf("invalid geosite data > %w", err)
		}
		entries = len(list.Entry)
	case CategoryGeoip:
		list := &router.GeoIPList{}
		if err := proto.Unmarshal(data, list); err != nil {
			return fmt.Errorf("invalid geoip data > %w", err)
		}
		entries = len(list.Entry)
	default:
		return nil
	}
	if entries == 0 {
		return fmt.Errorf("%s data has no entry", name)
	}
	return nil
}
