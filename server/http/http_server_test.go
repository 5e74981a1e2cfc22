package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/proxy/manager"
	"github.com/lureiny/xrayluci/server"
	"github.com/lureiny/xrayluci/uci"
	"github.com/lureiny/xrayluci/view"
	"github.com/smartystreets/goconvey/convey"
	"github.com/xtls/xray-core/app/router"
	"google.golang.org/protobuf/proto"
)

// mirrorTransport sends every download to the local test server, keyed by file name.
type mirrorTransport struct {
	target string
}

func (m *mirrorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	target, _ := url.Parse(m.target + "/" + path.Base(req.URL.Path))
	out.URL = target
	out.Host = target.Host
	return http.DefaultTransport.RoundTrip(out)
}

type testEnv struct {
	server  *HttpServer
	dataDir string
	procDir string
	store   *uci.StaticReader
	remote  *httptest.Server
}

func newTestEnv(t *testing.T, token string) *testEnv {
	dataDir := t.TempDir()
	procDir := t.TempDir()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geosite.dat":
			data, _ := proto.Marshal(&router.GeoSiteList{Entry: []*router.GeoSite{{CountryCode: "CN"}}})
			w.Write(data)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	files := dat.OSFileAccess{}
	updater, err := dat.NewUpdater(dataDir, files, dat.UpdaterOptions{
		Timeout:   5 * time.Second,
		Transport: &mirrorTransport{target: remote.URL},
	})
	if err != nil {
		t.Fatal(err)
	}
	proxyServer := manager.NewProxyServer(filepath.Join(procDir, "xray-not-installed"), nil)
	proxyServer.SetProcRoot(procDir)
	store := uci.NewStaticReader(uci.Sections{})

	s := NewHttpServer(HttpServerOptions{
		ServerConfig:      server.ServerConfig{Host: "127.0.0.1", Name: "router"},
		Token:             token,
		SupportPrometheus: true,
	}, &Services{
		Dat:          dat.NewService(dataDir, files, updater),
		Proxy:        proxyServer,
		Config:       store,
		SuccessCode:  common.CodeSuccess,
		PollInterval: time.Second,
	})
	return &testEnv{server: s, dataDir: dataDir, procDir: procDir, store: store, remote: remote}
}

func (e *testEnv) close() {
	e.server.statusWidget.Stop()
	e.remote.Close()
}

func (e *testEnv) get(uri string) (int, string) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, uri, nil)
	e.server.Handler().ServeHTTP(w, req)
	body, _ := io.ReadAll(w.Result().Body)
	return w.Code, string(body)
}

func (e *testEnv) setRunning() {
	os.MkdirAll(filepath.Join(e.procDir, "42"), 0755)
	os.WriteFile(filepath.Join(e.procDir, "42", "comm"), []byte("xray-not-instal\n"), 0644)
}

func TestRPCHandlers(t *testing.T) {
	convey.Convey("rpc handlers", t, func() {
		env := newTestEnv(t, "")
		defer env.close()

		convey.Convey("list status of a missing file fails", func() {
			code, body := env.get("/xray/listStatus?name=geoip")
			convey.So(code, convey.ShouldEqual, 200)
			reply := dat.ListStatusReply{}
			convey.So(json.Unmarshal([]byte(body), &reply), convey.ShouldBeNil)
			convey.So(reply.Code, convey.ShouldEqual, common.CodeFailed)
		})

		convey.Convey("update then list status", func() {
			code, body := env.get("/xray/updatedatafile?name=geosite&url=" + env.remote.URL + "/geosite.dat")
			convey.So(code, convey.ShouldEqual, 200)
			update := dat.UpdateReply{}
			convey.So(json.Unmarshal([]byte(body), &update), convey.ShouldBeNil)
			convey.So(update.Code, convey.ShouldEqual, common.CodeSuccess)

			_, body = env.get("/xray/listStatus?name=geosite")
			reply := dat.ListStatusReply{}
			convey.So(json.Unmarshal([]byte(body), &reply), convey.ShouldBeNil)
			convey.So(reply.Code, convey.ShouldEqual, common.CodeSuccess)
			convey.So(reply.Count, convey.ShouldEndWith, " B")

			_, metrics := env.get("/metrics")
			convey.So(metrics, convey.ShouldContainSubstring, `xrayluci_datafile_update_total{name="geosite",node="router",result="success"} 1`)
			convey.So(metrics, convey.ShouldContainSubstring, "xrayluci_datafile_bytes")
		})

		convey.Convey("update without url fails", func() {
			_, body := env.get("/xray/updatedatafile?name=geosite")
			convey.So(body, convey.ShouldContainSubstring, "url is required")
		})

		convey.Convey("running status follows the process list", func() {
			_, body := env.get("/xray/runningStatus")
			convey.So(body, convey.ShouldEqual, `{"code":1}`)
			env.setRunning()
			_, body = env.get("/xray/runningStatus")
			convey.So(body, convey.ShouldEqual, `{"code":0}`)
		})

		convey.Convey("version of a missing binary fails", func() {
			_, body := env.get("/xray/version")
			reply := manager.VersionReply{}
			convey.So(json.Unmarshal([]byte(body), &reply), convey.ShouldBeNil)
			convey.So(reply.Code, convey.ShouldEqual, common.CodeFailed)
		})

		convey.Convey("help lists the handlers", func() {
			code, body := env.get("/help/")
			convey.So(code, convey.ShouldEqual, 200)
			convey.So(body, convey.ShouldContainSubstring, "/xray/updatedatafile")
			_, body = env.get("/help/xray/listStatus")
			convey.So(body, convey.ShouldStartWith, "/xray/listStatus")
		})
	})
}

func TestTokenAuth(t *testing.T) {
	convey.Convey("token auth", t, func() {
		env := newTestEnv(t, "secret")
		defer env.close()

		code, _ := env.get("/xray/runningStatus")
		convey.So(code, convey.ShouldEqual, 401)
		code, _ = env.get("/xray/runningStatus?token=bad")
		convey.So(code, convey.ShouldEqual, 401)
		code, _ = env.get("/xray/runningStatus?token=secret")
		convey.So(code, convey.ShouldEqual, 200)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/xray/runningStatus", nil)
		req.Header.Set("token", "secret")
		env.server.Handler().ServeHTTP(w, req)
		convey.So(w.Code, convey.ShouldEqual, 200)

		code, _ = env.get("/help/")
		convey.So(code, convey.ShouldEqual, 200)
	})
}

type eventsReply struct {
	Events []view.UIEvent `json:"events"`
}

func TestViewHandlers(t *testing.T) {
	convey.Convey("view handlers", t, func() {
		env := newTestEnv(t, "")
		defer env.close()

		convey.Convey("page renders the tab and the status widget", func() {
			code, body := env.get("/view/xray?section=main")
			convey.So(code, convey.ShouldEqual, 200)
			convey.So(body, convey.ShouldContainSubstring, "Total: 0")
			convey.So(body, convey.ShouldContainSubstring, "Updated: Unknown")
			convey.So(body, convey.ShouldContainSubstring, "GitHub")
			convey.So(strings.Count(body, "data-listtype="), convey.ShouldEqual, 2)

			env.setRunning()
			ok := false
			for i := 0; i < 250 && !ok; i++ {
				_, status := env.get("/view/xray/status")
				ok = strings.Contains(status, `"state":"running"`)
				time.Sleep(20 * time.Millisecond)
			}
			convey.So(ok, convey.ShouldBeTrue)
		})

		convey.Convey("successful update shows a modal that reloads on dismiss", func() {
			env.store.Set(common.UciConfigXrayCore, "main", "geosite_url", dat.MirrorJsdelivr)
			_, body := env.get("/view/xray/update?section=main&name=geosite")
			reply := eventsReply{}
			convey.So(json.Unmarshal([]byte(body), &reply), convey.ShouldBeNil)
			convey.So(len(reply.Events), convey.ShouldEqual, 1)
			convey.So(reply.Events[0].Type, convey.ShouldEqual, view.EventModal)
			convey.So(reply.Events[0].Body, convey.ShouldEqual, "geosite updated.")

			_, page := env.get("/view/xray?section=main")
			convey.So(strings.Count(page, "Updated: Unknown"), convey.ShouldEqual, 1)

			code, body := env.get("/view/xray/dismiss?id=" + reply.Events[0].ID)
			convey.So(code, convey.ShouldEqual, 200)
			dismissed := eventsReply{}
			convey.So(json.Unmarshal([]byte(body), &dismissed), convey.ShouldBeNil)
			convey.So(len(dismissed.Events), convey.ShouldEqual, 2)
			convey.So(dismissed.Events[0].Type, convey.ShouldEqual, view.EventHideModal)
			convey.So(dismissed.Events[1].Type, convey.ShouldEqual, view.EventReload)
		})

		convey.Convey("failed update shows a notification", func() {
			_, body := env.get("/view/xray/update?section=main&name=geoip")
			reply := eventsReply{}
			convey.So(json.Unmarshal([]byte(body), &reply), convey.ShouldBeNil)
			convey.So(len(reply.Events), convey.ShouldEqual, 1)
			convey.So(reply.Events[0].Type, convey.ShouldEqual, view.EventNotification)
			convey.So(reply.Events[0].Body, convey.ShouldStartWith, "Update failed! ")
		})

		convey.Convey("unknown list", func() {
			code, _ := env.get("/view/xray/update?name=foo")
			convey.So(code, convey.ShouldEqual, 400)
		})

		convey.Convey("dismiss of an unknown modal", func() {
			code, _ := env.get("/view/xray/dismiss?id=nope")
			convey.So(code, convey.ShouldEqual, 404)
		})
	})
}

func TestPendingModals(t *testing.T) {
	convey.Convey("pending modals", t, func() {
		modals := newPendingModals(2)
		r1, r2, r3 := view.NewRecorder(), view.NewRecorder(), view.NewRecorder()
		modals.add("a", r1)
		modals.add("b", r2)
		modals.add("c", r3)

		_, ok := modals.take("a")
		convey.So(ok, convey.ShouldBeFalse)
		r, ok := modals.take("b")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(r, convey.ShouldEqual, r2)
		_, ok = modals.take("b")
		convey.So(ok, convey.ShouldBeFalse)
		_, ok = modals.take("c")
		convey.So(ok, convey.ShouldBeTrue)
	})
}
