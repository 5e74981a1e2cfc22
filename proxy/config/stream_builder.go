package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/lureiny/xrayluci/common/log/logger"
	"github.com/mitchellh/mapstructure"
	"github.com/xtls/xray-core/infra/conf"
)

const (
	SecurityNone = "none"
	SecurityTLS  = "tls"
)

const (
	TransportTCP  = "tcp"
	TransportWS   = "ws"
	TransportGRPC = "grpc"
	TransportH2   = "h2"
	TransportKCP  = "mkcp"
	TransportQUIC = "quic"
)

// ServerContext is the uci section of a server, forwarded verbatim to the stream settings provider.
type ServerContext map[string]interface{}

// StreamSettingsProvider builds the transport part of an outbound.
type StreamSettingsProvider interface {
	StreamSettings(server ServerContext, protocol, tag string) (*conf.StreamConfig, error)
}

// StreamOptions 是server中与传输层相关的选项
type StreamOptions struct {
	Transport       string   `mapstructure:"transport"`
	Security        string   `mapstructure:"security"`
	ServerName      string   `mapstructure:"server_name"`
	AllowInsecure   bool     `mapstructure:"allow_insecure"`
	Fingerprint     string   `mapstructure:"fingerprint"`
	ALPN            []string `mapstructure:"alpn"`
	TCPHeader       string   `mapstructure:"tcp_header"`
	WSPath          string   `mapstructure:"ws_path"`
	WSHost          string   `mapstructure:"ws_host"`
	GRPCServiceName string   `mapstructure:"grpc_service_name"`
	GRPCMultiMode   bool     `mapstructure:"grpc_multi_mode"`
	H2Path          string   `mapstructure:"h2_path"`
	H2Host          []string `mapstructure:"h2_host"`
	KCPSeed         string   `mapstructure:"kcp_seed"`
	KCPHeader       string   `mapstructure:"kcp_header"`
	QUICSecurity    string   `mapstructure:"quic_security"`
	QUICKey         string   `mapstructure:"quic_key"`
	QUICHeader      string   `mapstructure:"quic_header"`
}

// DecodeStreamOptions reads StreamOptions from server. Keys prefixed with "<protocol>_"
// override the unprefixed ones, uci values such as "1" or "h2,http/1.1" are accepted.
func DecodeStreamOptions(server ServerContext, protocol string) (*StreamOptions, error) {
	flat := map[string]interface{}{}
	prefix := protocol + "_"
	for k, v := range server {
		if protocol != "" && strings.HasPrefix(k, prefix) {
			continue
		}
		flat[k] = v
	}
	if protocol != "" {
		for k, v := range server {
			if strings.HasPrefix(k, prefix) {
				flat[strings.TrimPrefix(k, prefix)] = v
			}
		}
	}

	opts := &StreamOptions{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           opts,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(flat); err != nil {
		return nil, fmt.Errorf("decode stream options fail > %w", err)
	}
	if opts.Transport == "" {
		opts.Transport = TransportTCP
	}
	if opts.Security == "" {
		opts.Security = SecurityNone
	}
	opts.Transport = strings.ToLower(opts.Transport)
	opts.Security = strings.ToLower(opts.Security)
	return opts, nil
}

type StreamSettingBuilder interface {
	Build(opts *StreamOptions) (*conf.StreamConfig, error)
}

var streamSettingBuilders = map[string]StreamSettingBuilder{}
var buildersLock sync.RWMutex

// RegisterStreamSettingBuilder makes a transport available to TransportStreamBuilder.
func RegisterStreamSettingBuilder(transport string, builder StreamSettingBuilder) {
	buildersLock.Lock()
	defer buildersLock.Unlock()
	streamSettingBuilders[transport] = builder
}

func GetStreamSettingBuilder(transport string) StreamSettingBuilder {
	buildersLock.RLock()
	defer buildersLock.RUnlock()
	return streamSettingBuilders[transport]
}

// TransportStreamBuilder is the default StreamSettingsProvider, it dispatches on the transport option.
type TransportStreamBuilder struct{}

func (TransportStreamBuilder) StreamSettings(server ServerContext, protocol, tag string) (*conf.StreamConfig, error) {
	opts, err := DecodeStreamOptions(server, protocol)
	if err != nil {
		return nil, err
	}
	builder := GetStreamSettingBuilder(opts.Transport)
	if builder == nil {
		return nil, fmt.Errorf("unsupported transport: %s", opts.Transport)
	}
	streamConfig, err := builder.Build(opts)
	if err != nil {
		return nil, err
	}
	if err := fillSecurity(streamConfig, opts); err != nil {
		return nil, err
	}
	if _, err := streamConfig.Build(); err != nil {
		return nil, fmt.Errorf("invalid stream settings of %s > %w", tag, err)
	}
	logger.Debug("Msg=stream settings built|Tag=%s|Transport=%s|Security=%s", tag, opts.Transport, opts.Security)
	return streamConfig, nil
}

func newTransportProtocol(network string) *conf.TransportProtocol {
	transportProtocol := (conf.TransportProtocol)(network)
	return &transportProtocol
}

func NewTLSConfig(opts *StreamOptions) *conf.TLSConfig {
	tlsConfig := &conf.TLSConfig{}
	tlsConfig.ServerName = opts.ServerName
	tlsConfig.Insecure = opts.AllowInsecure
	tlsConfig.Fingerprint = opts.Fingerprint
	if len(opts.ALPN) > 0 {
		alpn := conf.StringList(opts.ALPN)
		tlsConfig.ALPN = &alpn
	}
	return tlsConfig
}

func fillSecurity(streamConfig *conf.StreamConfig, opts *StreamOptions) error {
	switch opts.Security {
	case SecurityNone:
		streamConfig.Security = SecurityNone
	case SecurityTLS:
		streamConfig.Security = SecurityTLS
		streamConfig.TLSSettings = NewTLSConfig(opts)
	default:
		return fmt.Errorf("unsupported security: %s", opts.Security)
	}
	return nil
}

// header type of tcp/mkcp/quic, empty means none
func newHeader(headerType string) json.RawMessage {
	if headerType == "" {
		headerType = "none"
	}
	data, _ := json.Marshal(map[string]string{"type": headerType})
	return data
}

type TCPBuilder struct{}

func (b *TCPBuilder) Build(opts *StreamOptions) (*conf.StreamConfig, error) {
	streamConfig := &conf.StreamConfig{}
	streamConfig.Network = newTransportProtocol("tcp")
	if opts.TCPHeader != "" && opts.TCPHeader != "none" {
		streamConfig.TCPSettings = &conf.TCPConfig{
			HeaderConfig: newHeader(opts.TCPHeader),
		}
	}
	return streamConfig, nil
}

type WSBuilder struct{}

func (b *WSBuilder) Build(opts *StreamOptions) (*conf.StreamConfig, error) {
	streamConfig := &conf.StreamConfig{}
	streamConfig.Network = newTransportProtocol("ws")
	wsConfig := &conf.WebSocketConfig{
		Path: opts.WSPath,
	}
	if opts.WSHost != "" {
		wsConfig.Headers = map[string]string{"Host": opts.WSHost}
	}
	streamConfig.WSSettings = wsConfig
	return streamConfig, nil
}

type GrpcBuilder struct{}

func (b *GrpcBuilder) Build(opts *StreamOptions) (*conf.StreamConfig, error) {
	if opts.GRPCServiceName == "" {
		return nil, fmt.Errorf("grpc service name can't be empty")
	}
	streamConfig := &conf.StreamConfig{}
	streamConfig.Network = newTransportProtocol("grpc")
	streamConfig.GRPCConfig = &conf.GRPCConfig{
		ServiceName: opts.GRPCServiceName,
		MultiMode:   opts.GRPCMultiMode,
	}
	return streamConfig, nil
}

type HttpBuilder struct{}

func (b *HttpBuilder) Build(opts *StreamOptions) (*conf.StreamConfig, error) {
	streamConfig := &conf.StreamConfig{}
	streamConfig.Network = newTransportProtocol("h2")
	httpConfig := &conf.HTTPConfig{
		Path: opts.H2Path,
	}
	if len(opts.H2Host) > 0 {
		hosts := conf.StringList(opts.H2Host)
		httpConfig.Host = &hosts
	}
	streamConfig.HTTPSettings = httpConfig
	return streamConfig, nil
}

type MkcpBuilder struct{}

func (b *MkcpBuilder) Build(opts *StreamOptions) (*conf.StreamConfig, error) {
	streamConfig := &conf.StreamConfig{}
	streamConfig.Network = newTransportProtocol("mkcp")
	kcpConfig := &conf.KCPConfig{
		HeaderConfig: newHeader(opts.KCPHeader),
	}
	if opts.KCPSeed != "" {
		seed := opts.KCPSeed
		kcpConfig.Seed = &seed
	}
	streamConfig.KCPSettings = kcpConfig
	return streamConfig, nil
}

type QuicBuilder struct{}

func (b *QuicBuilder) Build(opts *StreamOptions) (*conf.StreamConfig, error) {
	streamConfig := &conf.StreamConfig{}
	streamConfig.Network = newTransportProtocol("quic")
	security := opts.QUICSecurity
	if security == "" {
		security = "none"
	}
	streamConfig.QUICSettings = &conf.QUICConfig{
		Security: security,
		Key:      opts.QUICKey,
		Header:   newHeader(opts.QUICHeader),
	}
	return streamConfig, nil
}

func init() {
	RegisterStreamSettingBuilder(TransportTCP, &TCPBuilder{})
	RegisterStreamSettingBuilder(TransportWS, &WSBuilder{})
	RegisterStreamSettingBuilder(TransportGRPC, &GrpcBuilder{})
	RegisterStreamSettingBuilder(TransportH2, &HttpBuilder{})
	RegisterStreamSettingBuilder("http", &HttpBuilder{})
	RegisterStreamSettingBuilder(TransportKCP, &MkcpBuilder{})
	RegisterStreamSettingBuilder("kcp", &MkcpBuilder{})
	RegisterStreamSettingBuilder(TransportQUIC, &QuicBuilder{})
}
