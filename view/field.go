// Package view holds the form widgets and controllers of the xray settings page.
package view

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"sync"

	"github.com/lureiny/xrayluci/common"
)

// Field is the capability set shared by every widget of a form section.
type Field interface {
	Option() string
	Render(ctx context.Context, optionIndex int, sectionID string) (template.HTML, error)
	CfgValue(ctx context.Context, sectionID string) (interface{}, error)
	Write(sectionID, value string) error
	Remove(sectionID string) error
	Validate(sectionID, value string) error
}

// Depends is a list of alternatives, the field is shown when all options of any alternative match.
type Depends []map[string]string

// Satisfied evaluates the dependencies against the current form values.
func (d Depends) Satisfied(values map[string]string) bool {
	if len(d) == 0 {
		return true
	}
	for _, alternative := range d {
		matched := true
		for option, expect := range alternative {
			if values[option] != expect {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// AbstractValue carries what every widget has in common.
type AbstractValue struct {
	OptionName  string
	Title       string
	Description string
	Depends     Depends
	// uci config the section belongs to
	Config string

	visibleLock sync.RWMutex
	// section id -> visible, filled by CheckDepends
	visible map[string]bool
}

func (v *AbstractValue) Option() string { return v.OptionName }

func (v *AbstractValue) config() string {
	if v.Config == "" {
		return common.UciConfigXrayCore
	}
	return v.Config
}

// CBID is the form field id of the option in sectionID.
func (v *AbstractValue) CBID(sectionID string) string {
	return fmt.Sprintf("cbid.%s.%s.%s", v.config(), sectionID, v.OptionName)
}

func (v *AbstractValue) dependsJSON() string {
	if len(v.Depends) == 0 {
		return ""
	}
	data, _ := json.Marshal(v.Depends)
	return string(data)
}

// CheckDepends re-evaluates visibility after a dependency changed, it returns the new visibility.
func (v *AbstractValue) CheckDepends(sectionID string, values map[string]string) bool {
	visible := v.Depends.Satisfied(values)
	v.visibleLock.Lock()
	defer v.visibleLock.Unlock()
	if v.visible == nil {
		v.visible = map[string]bool{}
	}
	v.visible[sectionID] = visible
	return visible
}

// Hidden 有依赖的控件在第一次CheckDepends之前保持隐藏
func (v *AbstractValue) Hidden(sectionID string) bool {
	v.visibleLock.RLock()
	defer v.visibleLock.RUnlock()
	if visible, ok := v.visible[sectionID]; ok {
		return !visible
	}
	return len(v.Depends) > 0
}

func (v *AbstractValue) baseVars(optionIndex int, sectionID, widget string) map[string]interface{} {
	return map[string]interface{}{
		"Config":      v.config(),
		"Section":     sectionID,
		"Option":      v.OptionName,
		"Index":       optionIndex,
		"Depends":     v.dependsJSON(),
		"CBID":        v.CBID(sectionID),
		"Widget":      widget,
		"Title":       v.Title,
		"Description": v.Description,
		"Hidden":      v.Hidden(sectionID),
	}
}
