package view

import (
	"context"
	"fmt"
	"html/template"

	widgetTemplate "github.com/lureiny/xrayluci/common/template"
	"github.com/lureiny/xrayluci/uci"
)

// Choice is one entry of a ListValue.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// ListValue is a select box stored in a uci option.
type ListValue struct {
	AbstractValue
	Default string
	Store   uci.Store

	choices []Choice
}

func NewListValue(option, title string, store uci.Store) *ListValue {
	return &ListValue{
		AbstractValue: AbstractValue{OptionName: option, Title: title},
		Store:         store,
	}
}

// AddChoice appends a selectable value, label defaults to the value.
func (l *ListValue) AddChoice(value, label string) {
	if label == "" {
		label = value
	}
	l.choices = append(l.choices, Choice{Value: value, Label: label})
}

func (l *ListValue) Choices() []Choice {
	choices := make([]Choice, len(l.choices))
	copy(choices, l.choices)
	return choices
}

func (l *ListValue) has(value string) bool {
	for _, c := range l.choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

func (l *ListValue) CfgValue(ctx context.Context, sectionID string) (interface{}, error) {
	return l.value(sectionID), nil
}

func (l *ListValue) value(sectionID string) string {
	if l.Store != nil {
		if value, ok := l.Store.Get(l.config(), sectionID, l.OptionName); ok && value != "" {
			return value
		}
	}
	return l.Default
}

func (l *ListValue) Render(ctx context.Context, optionIndex int, sectionID string) (template.HTML, error) {
	current := l.value(sectionID)
	choices := l.Choices()
	for i := range choices {
		choices[i].Selected = choices[i].Value == current
	}
	vars := l.baseVars(optionIndex, sectionID, widgetTemplate.ListValueWidget)
	vars["Choices"] = choices
	return widgetTemplate.RenderWidget(widgetTemplate.ListValueWidget, vars)
}

func (l *ListValue) Write(sectionID, value string) error {
	if err := l.Validate(sectionID, value); err != nil {
		return err
	}
	if l.Store == nil {
		return fmt.Errorf("no config store for %s", l.OptionName)
	}
	return l.Store.Set(l.config(), sectionID, l.OptionName, value)
}

func (l *ListValue) Remove(sectionID string) error {
	if l.Store == nil {
		return nil
	}
	return l.Store.Set(l.config(), sectionID, l.OptionName, "")
}

func (l *ListValue) Validate(sectionID, value string) error {
	if !l.has(value) {
		return fmt.Errorf("%s: invalid value %q", l.Title, value)
	}
	return nil
}
