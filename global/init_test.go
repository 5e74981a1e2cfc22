package global

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/uci"
	"github.com/smartystreets/goconvey/convey"
)

func TestInitGlobalInfra(t *testing.T) {
	convey.Convey("init global infra", t, func() {
		file := filepath.Join(t.TempDir(), "config.yaml")
		content := `
xray:
  data_dir: /tmp/xray-data
uci:
  backend: static
  sections:
    xray_core:
      main:
        geoip_url: jsdelivr
`
		convey.So(os.WriteFile(file, []byte(content), 0644), convey.ShouldBeNil)
		convey.So(InitGlobalInfra(file, "test"), convey.ShouldBeNil)

		store, err := NewUciStore()
		convey.So(err, convey.ShouldBeNil)
		_, ok := store.(*uci.StaticReader)
		convey.So(ok, convey.ShouldBeTrue)
		url, ok := dat.ResolveMirrorURL(store, "main", dat.CategoryGeoip)
		convey.So(ok, convey.ShouldBeTrue)
		expect, _ := dat.MirrorURL(dat.CategoryGeoip, dat.MirrorJsdelivr)
		convey.So(url, convey.ShouldEqual, expect)

		service, err := NewDatService()
		convey.So(err, convey.ShouldBeNil)
		convey.So(service.Dir, convey.ShouldEqual, "/tmp/xray-data")

		convey.So(NewProxyServer(), convey.ShouldNotBeNil)
		convey.So(StatusPollInterval(), convey.ShouldEqual, common.DefaultPollInterval)
	})
}
