package protocol

import "github.com/ktcwm/ktc/wire"

const (
	opOutputManagerCreateConfiguration = 0
	opOutputManagerStop                = 1
)

// OutputManager implements zwlr_output_management_v1. With a single
// fixed-mode virtual output there is nothing to reconfigure: every
// configuration this hands out always reports succeeded without
// performing any mode-set, enable or disable. A real multi-output
// backend would instead validate the request against render.DRMDevice.Modes
// and only ack on an applied (or, for test, provisionally valid) change.
type OutputManager struct {
	client *Client
}

func NewOutputManager(c *Client) *OutputManager { return &OutputManager{client: c} }

func (m *OutputManager) Interface() string { return "zwlr_output_manager_v1" }

func (m *OutputManager) Dispatch(opcode uint16, r *wire.Reader) error {
	if opcode != opOutputManagerCreateConfiguration {
		return nil
	}
	id, err := r.Object()
	if err != nil {
		return err
	}
	if _, err := r.Uint(); err != nil { // serial
		return err
	}
	m.client.Objects.Insert(id, &OutputConfiguration{id: id, client: m.client})
	return nil
}

// zwlr_output_configuration_v1 request opcodes.
const (
	opOutputConfigEnableHead  = 0
	opOutputConfigDisableHead = 1
	opOutputConfigApply       = 2
	opOutputConfigTest        = 3
	opOutputConfigDestroy     = 4
)

const (
	evConfigSucceeded = 0
	evConfigCancelled = 2
)

// OutputConfiguration always reports succeeded for both apply and
// test, per OutputManager's stubbed single-output policy.
type OutputConfiguration struct {
	id     uint32
	client *Client
}

func (c *OutputConfiguration) Interface() string { return "zwlr_output_configuration_v1" }

func (c *OutputConfiguration) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opOutputConfigEnableHead:
		if _, err := r.Object(); err != nil { // new_id head configuration, left unbound
			return err
		}
		if _, err := r.Object(); err != nil { // head
			return err
		}
	case opOutputConfigDisableHead:
		if _, err := r.Object(); err != nil {
			return err
		}
	case opOutputConfigApply, opOutputConfigTest:
		c.client.SendEvent(c.id, evConfigSucceeded, nil)
	case opOutputConfigDestroy:
		c.client.Objects.Delete(c.id)
	}
	return nil
}
