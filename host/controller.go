package host

// ControllerDevice identifies one of up to four controller ports,
// grounded on original_source/emulator/libraries/host/src/controllers.rs's
// ControllerDevice enum.
type ControllerDevice int

const (
	ControllerA ControllerDevice = iota
	ControllerB
	ControllerC
	ControllerD
)

// ControllerInput names a single controller input line and its new
// state (true = pressed/active), grounded on controllers.rs's
// ControllerInput enum.
type ControllerInput int

const (
	DpadUp ControllerInput = iota
	DpadDown
	DpadLeft
	DpadRight
	ButtonA
	ButtonB
	ButtonC
	ButtonX
	ButtonY
	ButtonZ
	ButtonStart
	ButtonMode
)

// ControllerEvent reports one input transition on one controller
// device.
type ControllerEvent struct {
	Device ControllerDevice
	Input  ControllerInput
	Active bool
}
