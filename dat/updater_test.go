package dat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/xtls/xray-core/app/router"
	"google.golang.org/protobuf/proto"
)

func geoipData() []byte {
	data, _ := proto.Marshal(&router.GeoIPList{
		Entry: []*router.GeoIP{{CountryCode: "CN"}, {CountryCode: "PRIVATE"}},
	})
	return data
}

func geositeData() []byte {
	data, _ := proto.Marshal(&router.GeoSiteList{
		Entry: []*router.GeoSite{{CountryCode: "CN"}},
	})
	return data
}

func newDataServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/geoip.dat", func(w http.ResponseWriter, r *http.Request) {
		w.Write(geoipData())
	})
	mux.HandleFunc("/geosite.dat", func(w http.ResponseWriter, r *http.Request) {
		w.Write(geositeData())
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 2048)))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write(geoipData())
	})
	return httptest.NewServer(mux)
}

func TestUpdater(t *testing.T) {
	ts := newDataServer()
	defer ts.Close()

	convey.Convey("updater", t, func() {
		files := newFakeFiles()
		updater, err := NewUpdater("/usr/share/xray", files, UpdaterOptions{})
		convey.So(err, convey.ShouldBeNil)
		ctx := context.Background()

		convey.Convey("installs a valid geoip file", func() {
			err := updater.Update(ctx, CategoryGeoip, ts.URL+"/geoip.dat")
			convey.So(err, convey.ShouldBeNil)
			convey.So(files.data["/usr/share/xray/geoip.dat"], convey.ShouldResemble, geoipData())
		})

		convey.Convey("installs a valid geosite file", func() {
			err := updater.Update(ctx, CategoryGeosite, ts.URL+"/geosite.dat")
			convey.So(err, convey.ShouldBeNil)
			convey.So(files.data, convey.ShouldContainKey, "/usr/share/xray/geosite.dat")
		})

		convey.Convey("rejects an error page", func() {
			err := updater.Update(ctx, CategoryGeoip, ts.URL+"/html")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(files.data, convey.ShouldBeEmpty)
		})

		convey.Convey("rejects http errors", func() {
			err := updater.Update(ctx, CategoryGeoip, ts.URL+"/absent")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "404")
		})

		convey.Convey("rejects oversized bodies", func() {
			small, _ := NewUpdater("/usr/share/xray", files, UpdaterOptions{MaxBytes: 1024})
			err := small.Update(ctx, "custom", ts.URL+"/big")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "exceeds")
		})

		convey.Convey("other names skip verification", func() {
			err := updater.Update(ctx, "custom", ts.URL+"/big")
			convey.So(err, convey.ShouldBeNil)
		})

		convey.Convey("rejects bad names and urls", func() {
			convey.So(updater.Update(ctx, "../geoip", ts.URL+"/geoip.dat"), convey.ShouldNotBeNil)
			convey.So(updater.Update(ctx, CategoryGeoip, ""), convey.ShouldNotBeNil)
			convey.So(updater.Update(ctx, CategoryGeoip, "ftp://example.com/geoip.dat"), convey.ShouldNotBeNil)
			convey.So(files.data, convey.ShouldBeEmpty)
		})

		convey.Convey("honors the timeout", func() {
			quick, _ := NewUpdater("/usr/share/xray", files, UpdaterOptions{Timeout: 50 * time.Millisecond})
			err := quick.Update(ctx, CategoryGeoip, ts.URL+"/slow")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("proxy options", t, func() {
		_, err := NewUpdater("", nil, UpdaterOptions{Proxy: "socks5://127.0.0.1:1080"})
		convey.So(err, convey.ShouldBeNil)
		_, err = NewUpdater("", nil, UpdaterOptions{Proxy: "http://127.0.0.1:8080"})
		convey.So(err, convey.ShouldBeNil)
		_, err = NewUpdater("", nil, UpdaterOptions{Proxy: "quic://127.0.0.1:1"})
		convey.So(err, convey.ShouldNotBeNil)
	})

	convey.Convey("verify", t, func() {
		convey.So(Verify(CategoryGeoip, geoipData()), convey.ShouldBeNil)
		convey.So(Verify(CategoryGeosite, geositeData()), convey.ShouldBeNil)
		empty, _ := proto.Marshal(&router.GeoIPList{})
		convey.So(Verify(CategoryGeoip, empty), convey.ShouldNotBeNil)
		convey.So(Verify("custom", []byte("anything")), convey.ShouldBeNil)
	})
}

func TestService(t *testing.T) {
	ts := newDataServer()
	defer ts.Close()

	convey.Convey("data file service", t, func() {
		files := newFakeFiles()
		updater, _ := NewUpdater("/usr/share/xray", files, UpdaterOptions{})
		service := NewService("/usr/share/xray", files, updater)
		ctx := context.Background()

		convey.Convey("list status of a missing file", func() {
			reply := service.ListStatus(ctx, CategoryGeoip)
			convey.So(reply.Code, convey.ShouldEqual, 1)
		})

		convey.Convey("update then list status", func() {
			reply := service.UpdateDataFile(ctx, CategoryGeoip, ts.URL+"/geoip.dat")
			convey.So(reply, convey.ShouldResemble, UpdateReply{Code: 0})

			status := service.ListStatus(ctx, CategoryGeoip)
			convey.So(status.Code, convey.ShouldEqual, 0)
			convey.So(status.Count, convey.ShouldEqual, FormatSize(int64(len(geoipData()))))
			convey.So(status.Datetime, convey.ShouldNotBeEmpty)
		})

		convey.Convey("failed update reports the message", func() {
			reply := service.UpdateDataFile(ctx, CategoryGeoip, ts.URL+"/html")
			convey.So(reply.Code, convey.ShouldEqual, 1)
			convey.So(reply.Msg, convey.ShouldContainSubstring, "invalid geoip data")
		})

		convey.Convey("missing updater", func() {
			reply := NewService("/tmp", files, nil).UpdateDataFile(ctx, CategoryGeoip, ts.URL+"/geoip.dat")
			convey.So(reply.Code, convey.ShouldEqual, 1)
		})
	})
}
