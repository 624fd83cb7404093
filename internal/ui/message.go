package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/services"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPhonesFetched MsgKind = iota
	MsgPhoneFetched
	MsgHistoryFetched
)

type phonesFetched struct {
	sort   services.SortKey
	phones []*models.Phone
	err    error
}

type phoneFetched struct {
	phone *models.Phone
	err   error
}

type historyFetched struct {
	runs []*models.ImportRun
	err  error
}

// phonesFetchedMsg is the constructor for [MsgPhonesFetched]
func phonesFetchedMsg(sort services.SortKey, phones []*models.Phone, err error) Msg {
	return Msg{kind: MsgPhonesFetched, data: phonesFetched{sort, phones, err}}
}

// phoneFetchedMsg is the constructor for [MsgPhoneFetched]
func phoneFetchedMsg(phone *models.Phone, err error) Msg {
	return Msg{kind: MsgPhoneFetched, data: phoneFetched{phone, err}}
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]
func historyFetchedMsg(runs []*models.ImportRun, err error) Msg {
	return Msg{kind: MsgHistoryFetched, data: historyFetched{runs, err}}
}
