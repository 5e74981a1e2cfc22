// Package dat manages the geosite/geoip data files used by xray routing rules.
package dat

import (
	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/uci"
)

const (
	CategoryGeosite = "geosite"
	CategoryGeoip   = "geoip"

	MirrorGithub   = "github"
	MirrorJsdelivr = "jsdelivr"

	DefaultMirror = MirrorGithub
)

// 镜像表是只读常量, 不提供写入
var mirrorURLs = map[string]map[string]string{
	CategoryGeosite: {
		MirrorGithub:   "https://github.com/Loyalsoldier/v2ray-rules-dat/releases/latest/download/geosite.dat",
		MirrorJsdelivr: "https://cdn.jsdelivr.net/gh/Loyalsoldier/v2ray-rules-dat@release/geosite.dat",
	},
	CategoryGeoip: {
		MirrorGithub:   "https://github.com/Loyalsoldier/v2ray-rules-dat/releases/latest/download/geoip.dat",
		MirrorJsdelivr: "https://cdn.jsdelivr.net/gh/Loyalsoldier/v2ray-rules-dat@release/geoip.dat",
	},
}

// Mirror is a selectable download source shown in the mirror option.
type Mirror struct {
	Name  string
	Label string
}

// Mirrors lists the sources in display order.
var Mirrors = []Mirror{
	{Name: MirrorGithub, Label: "GitHub"},
	{Name: MirrorJsdelivr, Label: "JsDelivr"},
}

// Categories lists the data files in display order.
var Categories = []string{CategoryGeosite, CategoryGeoip}

// MirrorURL returns the download url of category from mirror; ok is false for pairs outside the table.
func MirrorURL(category, mirror string) (string, bool) {
	url, ok := mirrorURLs[category][mirror]
	return url, ok
}

// MirrorOption is the uci option holding the mirror preference of category.
func MirrorOption(category string) string {
	return category + "_url"
}

// MirrorPreference reads the mirror preference of category, unset or empty means github.
// Unrecognized values are returned as is.
func MirrorPreference(r uci.Reader, section, category string) string {
	if r == nil {
		return DefaultMirror
	}
	mirror, ok := r.Get(common.UciConfigXrayCore, section, MirrorOption(category))
	if !ok || mirror == "" {
		return DefaultMirror
	}
	return mirror
}

// ResolveMirrorURL resolves the update url of category for a config section.
// An unrecognized category or mirror yields "", false.
func ResolveMirrorURL(r uci.Reader, section, category string) (string, bool) {
	return MirrorURL(category, MirrorPreference(r, section, category))
}
