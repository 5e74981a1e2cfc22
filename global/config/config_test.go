package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lureiny/xrayluci/common"
	"github.com/smartystreets/goconvey/convey"
)

func TestInitGlobalConfig(t *testing.T) {
	convey.Convey("init global config", t, func() {
		convey.Convey("defaults only", func() {
			convey.So(InitGlobalConfig(""), convey.ShouldBeNil)
			convey.So(CheckConfig(), convey.ShouldBeNil)
			convey.So(GetString(common.ConfigXrayDataDir), convey.ShouldEqual, common.DefaultDataDir)
			convey.So(GetInt(common.ConfigServerHttpPort), convey.ShouldEqual, common.DefaultHttpPort)
			convey.So(GetDuration(common.ConfigUpdateTimeout), convey.ShouldEqual, common.DefaultUpdateTimeout)
			convey.So(GetInt(common.ConfigUpdateSuccessCode), convey.ShouldEqual, common.CodeSuccess)
		})

		convey.Convey("file overrides defaults", func() {
			file := filepath.Join(t.TempDir(), "config.yaml")
			content := `
xray:
  data_dir: /tmp/xray
update:
  success_code: 1
uci:
  backend: static
  sections:
    xray_core:
      main:
        geosite_url: jsdelivr
`
			convey.So(os.WriteFile(file, []byte(content), 0644), convey.ShouldBeNil)
			convey.So(InitGlobalConfig(file), convey.ShouldBeNil)
			convey.So(CheckConfig(), convey.ShouldBeNil)
			convey.So(GetString(common.ConfigXrayDataDir), convey.ShouldEqual, "/tmp/xray")
			convey.So(GetInt(common.ConfigUpdateSuccessCode), convey.ShouldEqual, 1)
			convey.So(Get(common.ConfigUciSections), convey.ShouldNotBeNil)
		})

		convey.Convey("invalid values are rejected", func() {
			convey.So(InitGlobalConfig(""), convey.ShouldBeNil)
			Set(common.ConfigUciBackend, "ubus")
			convey.So(CheckConfig(), convey.ShouldNotBeNil)

			convey.So(InitGlobalConfig(""), convey.ShouldBeNil)
			Set(common.ConfigServerHttpPort, 70000)
			convey.So(CheckConfig(), convey.ShouldNotBeNil)
		})
	})
}
