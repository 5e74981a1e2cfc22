package view

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/uci"
	"github.com/smartystreets/goconvey/convey"
)

func TestUpdateDatController(t *testing.T) {
	ctx := context.Background()
	convey.Convey("update dat controller", t, func() {
		config := uci.NewStaticReader(uci.Sections{})
		updater := &fakeUpdater{}
		recorder := NewRecorder()
		controller := NewUpdateDatController(config, updater, recorder)
		githubURL, _ := dat.MirrorURL(dat.CategoryGeosite, dat.MirrorGithub)

		convey.Convey("unset mirror uses github", func() {
			updater.reply = dat.UpdateReply{Code: common.CodeSuccess}
			convey.So(controller.HandleListUpdate(ctx, nil, "main", dat.CategoryGeosite), convey.ShouldBeNil)
			convey.So(updater.calls, convey.ShouldResemble, []updateCall{{name: dat.CategoryGeosite, url: githubURL}})
		})

		convey.Convey("configured mirror is used", func() {
			convey.So(config.Set(common.UciConfigXrayCore, "main", "geoip_url", dat.MirrorJsdelivr), convey.ShouldBeNil)
			updater.reply = dat.UpdateReply{Code: common.CodeSuccess}
			_ = controller.HandleListUpdate(ctx, nil, "main", dat.CategoryGeoip)
			url, _ := dat.MirrorURL(dat.CategoryGeoip, dat.MirrorJsdelivr)
			convey.So(updater.calls[0].url, convey.ShouldEqual, url)
		})

		convey.Convey("success shows a modal only", func() {
			updater.reply = dat.UpdateReply{Code: common.CodeSuccess}
			_ = controller.HandleListUpdate(ctx, nil, "main", dat.CategoryGeosite)
			events := recorder.Events()
			convey.So(len(events), convey.ShouldEqual, 1)
			convey.So(events[0].Type, convey.ShouldEqual, EventModal)
			convey.So(events[0].Title, convey.ShouldEqual, "List Update")
			convey.So(events[0].Body, convey.ShouldEqual, "geosite updated.")

			convey.Convey("dismiss hides the modal and reloads", func() {
				convey.So(recorder.Dismiss(events[0].ID), convey.ShouldBeTrue)
				events = recorder.Events()
				convey.So(len(events), convey.ShouldEqual, 3)
				convey.So(events[1].Type, convey.ShouldEqual, EventHideModal)
				convey.So(events[2].Type, convey.ShouldEqual, EventReload)
				convey.So(recorder.Dismiss(events[0].ID), convey.ShouldBeFalse)
			})
		})

		convey.Convey("failed reply shows a notification", func() {
			updater.reply = dat.UpdateReply{Code: common.CodeFailed, Msg: "download fail"}
			convey.So(controller.HandleListUpdate(ctx, nil, "main", dat.CategoryGeosite), convey.ShouldBeNil)
			events := recorder.Events()
			convey.So(len(events), convey.ShouldEqual, 1)
			convey.So(events[0].Type, convey.ShouldEqual, EventNotification)
			convey.So(events[0].Body, convey.ShouldEqual, "Update failed! download fail")
		})

		convey.Convey("transport error shows its message", func() {
			updater.err = errors.New("timeout")
			err := controller.HandleListUpdate(ctx, nil, "main", dat.CategoryGeosite)
			convey.So(err, convey.ShouldNotBeNil)
			events := recorder.Events()
			convey.So(len(events), convey.ShouldEqual, 1)
			convey.So(events[0].Type, convey.ShouldEqual, EventNotification)
			convey.So(strings.Contains(events[0].Body, "timeout"), convey.ShouldBeTrue)
			convey.So(len(updater.calls), convey.ShouldEqual, 1)
		})

		convey.Convey("success code is configurable", func() {
			controller.SuccessCode = 1
			updater.reply = dat.UpdateReply{Code: 1}
			_ = controller.HandleListUpdate(ctx, nil, "main", dat.CategoryGeoip)
			convey.So(recorder.Events()[0].Type, convey.ShouldEqual, EventModal)
		})

		convey.Convey("unknown mirror sends an empty url", func() {
			_ = config.Set(common.UciConfigXrayCore, "main", "geosite_url", "ftp")
			updater.reply = dat.UpdateReply{Code: common.CodeFailed, Msg: "invalid url"}
			_ = controller.HandleListUpdate(ctx, nil, "main", dat.CategoryGeosite)
			convey.So(updater.calls[0].url, convey.ShouldEqual, "")
		})
	})
}

func TestUpdateDatOptions(t *testing.T) {
	ctx := context.Background()
	convey.Convey("update dat options", t, func() {
		store := uci.NewStaticReader(uci.Sections{})
		source := &fakeStatusSource{status: dat.Status{Count: "1.00 MB", Datetime: "2024/01/01 00:00:00"}}
		updater := &fakeUpdater{reply: dat.UpdateReply{Code: common.CodeSuccess}}
		controller := NewUpdateDatController(store, updater, NewRecorder())
		fields := UpdateDatOptions(store, source, controller)
		convey.So(len(fields), convey.ShouldEqual, 4)

		options := []string{}
		titles := []string{}
		for _, field := range fields {
			options = append(options, field.Option())
		}
		titles = append(titles, fields[0].(*ListValue).Title, fields[1].(*ListStatusValue).Title,
			fields[2].(*ListValue).Title, fields[3].(*ListStatusValue).Title)
		convey.So(options, convey.ShouldResemble, []string{"geosite_url", "_geosite", "geoip_url", "_geoip"})
		convey.So(titles, convey.ShouldResemble, []string{"geosite update mirror", "geosite.dat", "geoip update mirror", "geoip.dat"})
		convey.So(fields[1].(*ListStatusValue).ListType, convey.ShouldEqual, dat.CategoryGeosite)
		convey.So(fields[3].(*ListStatusValue).ListType, convey.ShouldEqual, dat.CategoryGeoip)

		mirror, ok := fields[0].(*ListValue)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(mirror.Option(), convey.ShouldEqual, "geosite_url")
		value, _ := mirror.CfgValue(ctx, "main")
		convey.So(value, convey.ShouldEqual, dat.MirrorGithub)
		convey.So(mirror.Validate("main", "gitee"), convey.ShouldNotBeNil)
		convey.So(mirror.Write("main", dat.MirrorJsdelivr), convey.ShouldBeNil)
		value, _ = mirror.CfgValue(ctx, "main")
		convey.So(value, convey.ShouldEqual, dat.MirrorJsdelivr)

		html, err := RenderSection(ctx, "main", fields...)
		convey.So(err, convey.ShouldBeNil)
		convey.So(html, convey.ShouldContainSubstring, "JsDelivr")
		convey.So(html, convey.ShouldContainSubstring, "Total: 1.00 MB")

		status, ok := FindListStatus(fields, dat.CategoryGeosite)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(status.Click(ctx, &Event{Type: "click"}, "main"), convey.ShouldBeNil)
		url, _ := dat.MirrorURL(dat.CategoryGeosite, dat.MirrorJsdelivr)
		convey.So(updater.calls, convey.ShouldResemble, []updateCall{{name: dat.CategoryGeosite, url: url}})
	})
}
