package tui

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgFrame is sent once per frame. Each frame polls the transfer slots.
type MsgFrame struct{}

func (MsgFrame) sealed() {}

// MsgSaved is sent when a state save finished.
type MsgSaved struct {
	Seq uint64
}

func (MsgSaved) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}

// MsgClearStatus is sent to clear the status line.
type MsgClearStatus struct {
	Seq uint64
}

func (MsgClearStatus) sealed() {}
