package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/phonecat/internal/models"
)

var _ list.Item = phoneItem{}

// phoneItem wraps [models.Phone] to implement [list.Item].
type phoneItem struct {
	phone *models.Phone
}

func (i phoneItem) FilterValue() string { return i.phone.Name }
func (i phoneItem) Title() string       { return i.phone.Name }
func (i phoneItem) Description() string {
	desc := i.phone.PriceString()
	if d := i.phone.ReleaseDateString(); d != "" {
		desc = fmt.Sprintf("%s • %s", desc, d)
	}
	if i.phone.LTEExists {
		desc += " • LTE"
	}
	return desc
}

func phoneItems(phones []*models.Phone) []list.Item {
	items := make([]list.Item, len(phones))
	for i, p := range phones {
		items[i] = phoneItem{phone: p}
	}
	return items
}
