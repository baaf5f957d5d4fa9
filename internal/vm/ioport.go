package vm

// IOPort is the abstract capability set the Engine invokes for all
// side effects. The Engine never touches hardware directly — concrete
// GPIO/UART/ADC/clock drivers are external collaborators and out of
// scope here. A boolean false (or ok=false from the read accessors)
// signals a hardware fault and is mapped by the Engine to
// ErrHardwareFault.
//
// Implementations must be safe to call from the single goroutine that
// drives one VM instance; no concurrent calls occur within one VM, so
// IOPort need not be safe against concurrent calls from multiple VMs
// sharing one port unless the implementation intends to support that.
type IOPort interface {
	DigitalWrite(pin uint8, value uint8) bool
	DigitalRead(pin uint8) (uint8, bool)
	AnalogWrite(pin uint8, value uint16) bool
	AnalogRead(pin uint8) (uint16, bool)
	PinMode(pin uint8, mode uint8) bool

	// DelayNanoseconds may block the calling thread; it is the only
	// opcode-reachable suspension point.
	DelayNanoseconds(ns uint32)

	Millis() uint32
	Micros() uint32

	ButtonPressed(id uint8) bool
	ButtonReleased(id uint8) bool

	VMPrintf(stringID uint8, args []int32) bool

	ResetHardware()
	InitializeHardware()
}
