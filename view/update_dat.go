package view

import (
	"context"
	"fmt"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/common/log/logger"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/uci"
)

const updateModalTitle = "List Update"

// UpdateDatController runs updatedatafile for the list update buttons and reports to the ui.
type UpdateDatController struct {
	Config  uci.Reader
	Updater DataFileUpdater
	UI      Notifier
	// response code treated as success
	SuccessCode int
}

func NewUpdateDatController(config uci.Reader, updater DataFileUpdater, ui Notifier) *UpdateDatController {
	return &UpdateDatController{
		Config:      config,
		Updater:     updater,
		UI:          ui,
		SuccessCode: common.CodeSuccess,
	}
}

// HandleListUpdate resolves the mirror url of category and asks the router to download it.
// Failures are reported to the ui, the returned error is only set for transport failures.
func (c *UpdateDatController) HandleListUpdate(ctx context.Context, ev *Event, sectionID, category string) error {
	url, ok := dat.ResolveMirrorURL(c.Config, sectionID, category)
	if !ok {
		logger.Warn("Msg=unknown mirror, send empty url|Section=%s|Category=%s|Mirror=%s",
			sectionID, category, dat.MirrorPreference(c.Config, sectionID, category))
	}

	reply, err := c.Updater.UpdateDataFile(ctx, category, url)
	if err != nil {
		c.UI.AddNotification(err.Error())
		return err
	}
	if reply.Code != c.SuccessCode {
		c.UI.AddNotification(fmt.Sprintf("Update failed! %s", reply.Msg))
		return nil
	}

	ui := c.UI
	ui.ShowModal(updateModalTitle, fmt.Sprintf("%s updated.", category), func() {
		ui.HideModal()
		ui.Reload()
	})
	return nil
}

// UpdateDatOptions builds the fields of the data file tab, each category gets its mirror select
// followed by its list status row.
func UpdateDatOptions(store uci.Store, source dat.StatusSource, controller *UpdateDatController) []Field {
	fields := make([]Field, 0, 2*len(dat.Categories))
	for _, category := range dat.Categories {
		mirror := NewListValue(dat.MirrorOption(category), fmt.Sprintf("%s update mirror", category), store)
		for _, m := range dat.Mirrors {
			mirror.AddChoice(m.Name, m.Label)
		}
		mirror.Default = dat.DefaultMirror

		status := NewListStatusValue("_"+category, category+".dat", category, source)
		status.BtnTitle = "Update"
		status.BtnStyle = "apply"
		if controller != nil {
			status.OnUpdate = controller.HandleListUpdate
		}
		fields = append(fields, mirror, status)
	}
	return fields
}

// RenderSection renders fields in order for sectionID.
func RenderSection(ctx context.Context, sectionID string, fields ...Field) (string, error) {
	html := ""
	for i, field := range fields {
		fragment, err := field.Render(ctx, i, sectionID)
		if err != nil {
			return "", fmt.Errorf("render %s fail > %v", field.Option(), err)
		}
		html += string(fragment) + "\n"
	}
	return html, nil
}

// FindListStatus returns the list status field of category.
func FindListStatus(fields []Field, category string) (*ListStatusValue, bool) {
	for _, field := range fields {
		if status, ok := field.(*ListStatusValue); ok && status.ListType == category {
			return status, true
		}
	}
	return nil, false
}
