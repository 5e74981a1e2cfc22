package view

import (
	"context"
	"fmt"
	"html/template"

	"github.com/lureiny/xrayluci/common/log/logger"
	widgetTemplate "github.com/lureiny/xrayluci/common/template"
	"github.com/lureiny/xrayluci/dat"
)

// Event describes the ui interaction that triggered a callback.
type Event struct {
	Type   string
	Target string
}

// UpdateFunc is invoked by the update button with (event, section id, list type).
type UpdateFunc func(ctx context.Context, ev *Event, sectionID, listType string) error

// ListStatusValue shows size and modification time of a data file and an update button.
// It is display only, Write and Remove do nothing.
type ListStatusValue struct {
	AbstractValue
	ListType string
	BtnTitle string
	BtnStyle string
	OnUpdate UpdateFunc
	Source   dat.StatusSource
}

func NewListStatusValue(option, title, listType string, source dat.StatusSource) *ListStatusValue {
	return &ListStatusValue{
		AbstractValue: AbstractValue{OptionName: option, Title: title},
		ListType:      listType,
		BtnStyle:      "button",
		Source:        source,
	}
}

// CfgValue returns the dat.Status of the list, sections that were never saved get the default record.
func (l *ListStatusValue) CfgValue(ctx context.Context, sectionID string) (interface{}, error) {
	return l.status(ctx, sectionID)
}

func (l *ListStatusValue) status(ctx context.Context, sectionID string) (dat.Status, error) {
	if l.ListType == "" {
		return dat.Status{}, fmt.Errorf("TypeError: listtype is required")
	}
	if dat.IsUnsavedSection(sectionID) || l.Source == nil {
		return dat.DefaultStatus(), nil
	}
	status, err := l.Source.Status(ctx, l.ListType)
	if err != nil {
		logger.Debug("Msg=get list status fail|ListType=%s|Err=%v", l.ListType, err)
		return dat.DefaultStatus(), nil
	}
	return status, nil
}

func (l *ListStatusValue) Render(ctx context.Context, optionIndex int, sectionID string) (template.HTML, error) {
	status, err := l.status(ctx, sectionID)
	if err != nil {
		return "", err
	}
	vars := l.baseVars(optionIndex, sectionID, widgetTemplate.ListStatusWidget)
	vars["Count"] = status.Count
	vars["Datetime"] = status.Datetime
	vars["ListType"] = l.ListType
	btnStyle := l.BtnStyle
	if btnStyle == "" {
		btnStyle = "button"
	}
	vars["BtnStyle"] = btnStyle
	btnTitle := l.BtnTitle
	if btnTitle == "" {
		btnTitle = l.Title
	}
	vars["BtnTitle"] = btnTitle
	return widgetTemplate.RenderWidget(widgetTemplate.ListStatusWidget, vars)
}

// Click is the update button handler.
func (l *ListStatusValue) Click(ctx context.Context, ev *Event, sectionID string) error {
	if l.OnUpdate == nil {
		return nil
	}
	return l.OnUpdate(ctx, ev, sectionID, l.ListType)
}

func (l *ListStatusValue) Write(sectionID, value string) error { return nil }

func (l *ListStatusValue) Remove(sectionID string) error { return nil }

func (l *ListStatusValue) Validate(sectionID, value string) error { return nil }
