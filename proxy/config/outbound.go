package config

import (
	"encoding/json"

	"github.com/xtls/xray-core/infra/conf"
)

const ProtocolFreedom = "freedom"

// 传给stream settings的协议名, 与server中的"free_"前缀对应
const freeStreamProtocol = "free"

// Outbound is one entry of the outbounds array of an xray config.
type Outbound struct {
	Protocol       string             `json:"protocol"`
	Tag            string             `json:"tag"`
	Settings       json.RawMessage    `json:"settings"`
	StreamSettings *conf.StreamConfig `json:"streamSettings"`
}

// OutboundFragment is the shape handed to the config assembler.
type OutboundFragment struct {
	Outbound *Outbound `json:"outbound"`
}

// FreeOutbound builds a freedom outbound. server is passed through to provider untouched,
// tag is not validated, uniqueness is up to the caller. Errors of provider are returned as is.
func FreeOutbound(provider StreamSettingsProvider, server ServerContext, tag string) (*Outbound, error) {
	streamSettings, err := provider.StreamSettings(server, freeStreamProtocol, tag)
	if err != nil {
		return nil, err
	}
	return &Outbound{
		Protocol:       ProtocolFreedom,
		Tag:            tag,
		Settings:       json.RawMessage(`{}`),
		StreamSettings: streamSettings,
	}, nil
}

// FreeOutboundFragment is FreeOutbound wrapped as {"outbound": ...}.
func FreeOutboundFragment(provider StreamSettingsProvider, server ServerContext, tag string) (*OutboundFragment, error) {
	outbound, err := FreeOutbound(provider, server, tag)
	if err != nil {
		return nil, err
	}
	return &OutboundFragment{Outbound: outbound}, nil
}

// Validate builds the outbound with xray's own config loader.
func (o *Outbound) Validate() error {
	settings := o.Settings
	detour := &conf.OutboundDetourConfig{
		Protocol:      o.Protocol,
		Tag:           o.Tag,
		Settings:      &settings,
		StreamSetting: o.StreamSettings,
	}
	_, err := detour.Build()
	return err
}
