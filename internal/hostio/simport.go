package hostio

import (
	"fmt"
	"sync"
	"time"

	"github.com/cockpit-vm/cockpitvm/internal/vm"
)

// pinMode mirrors the handful of states a simulated pin can be put in
// via PIN_MODE. The mode is only recorded: no other SimPort operation
// consults it, and unlike a real driver it never affects electrical
// behavior. PinMode itself rejects mode values other than 0, 1 and 2.
type pinMode uint8

const (
	modeUnset pinMode = iota
	modeInput
	modeOutput
	modeInputPullup
)

// SimPort is a goroutine-safe, host-memory simulation of the Engine's
// I/O Port contract: a pin state table, a monotonic clock derived from
// time.Now(), and a string table for vm_printf. It is grounded in the
// teacher's consoleIO/systemTimer devices (vm/devices.go) —
// mutex-protected state with an explicit Reset lifecycle — simplified
// here to synchronous calls because the Engine only ever calls an
// IOPort from the single goroutine driving one VM instance.
type SimPort struct {
	mu sync.Mutex

	modes   [256]pinMode
	digital [256]uint8
	analog  [256]uint16
	buttons [256]bool

	faultPins map[uint8]bool

	start time.Time

	strings *StringTable
	printf  func(format string, args []int32)
}

// NewSimPort constructs a SimPort with its monotonic clock zeroed at
// construction time, backed by strings (an empty table when strings is
// nil).
func NewSimPort(strings *StringTable) *SimPort {
	if strings == nil {
		strings = NewStringTable()
	}
	p := &SimPort{
		faultPins: make(map[uint8]bool),
		strings:   strings,
		start:     time.Now(),
	}
	p.printf = p.defaultPrintf
	return p
}

// SetPrintfSink overrides where VMPrintf's rendered text goes; the
// default writes the rendered text to stdout unchanged. Test harnesses can install
// a sink that records calls instead.
func (p *SimPort) SetPrintfSink(sink func(format string, args []int32)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printf = sink
}

// SetButton sets the simulated press state of button id — an exported
// test-harness hook, echoing the way the teacher's consoleIO exposes
// state toggles for its Reset lifecycle.
func (p *SimPort) SetButton(id uint8, pressed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buttons[id] = pressed
}

// FaultPin forces every subsequent operation on pin to report a
// hardware fault, until cleared — a test-harness hook for exercising
// the hardware-fault path.
func (p *SimPort) FaultPin(pin uint8, faulted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if faulted {
		p.faultPins[pin] = true
	} else {
		delete(p.faultPins, pin)
	}
}

func (p *SimPort) faulted(pin uint8) bool {
	return p.faultPins[pin]
}

func (p *SimPort) DigitalWrite(pin uint8, value uint8) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.faulted(pin) {
		return false
	}
	p.digital[pin] = value
	return true
}

func (p *SimPort) DigitalRead(pin uint8) (uint8, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.faulted(pin) {
		return 0, false
	}
	return p.digital[pin], true
}

func (p *SimPort) AnalogWrite(pin uint8, value uint16) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.faulted(pin) {
		return false
	}
	p.analog[pin] = value
	return true
}

func (p *SimPort) AnalogRead(pin uint8) (uint16, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.faulted(pin) {
		return 0, false
	}
	return p.analog[pin], true
}

func (p *SimPort) PinMode(pin uint8, mode uint8) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.faulted(pin) {
		return false
	}
	switch mode {
	case 0:
		p.modes[pin] = modeInput
	case 1:
		p.modes[pin] = modeOutput
	case 2:
		p.modes[pin] = modeInputPullup
	default:
		return false
	}
	return true
}

// DelayNanoseconds blocks the calling goroutine for the requested
// duration — the only opcode-reachable suspension point.
func (p *SimPort) DelayNanoseconds(ns uint32) {
	time.Sleep(time.Duration(ns) * time.Nanosecond)
}

func (p *SimPort) Millis() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return uint32(time.Since(p.start).Milliseconds())
}

func (p *SimPort) Micros() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return uint32(time.Since(p.start).Microseconds())
}

func (p *SimPort) ButtonPressed(id uint8) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buttons[id]
}

func (p *SimPort) ButtonReleased(id uint8) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.buttons[id]
}

// VMPrintf looks up string_id in the table and renders it against args
// using the same verb semantics as fmt.Sprintf, writing the result to
// the configured sink. An unset string id is a hardware fault — there
// is nothing for the I/O port to print.
func (p *SimPort) VMPrintf(stringID uint8, args []int32) bool {
	p.mu.Lock()
	format, ok := p.strings.Lookup(stringID)
	sink := p.printf
	p.mu.Unlock()
	if !ok {
		return false
	}
	anyArgs := make([]any, len(args))
	for i, a := range args {
		anyArgs[i] = a
	}
	sink(fmt.Sprintf(format, anyArgs...), args)
	return true
}

func (p *SimPort) defaultPrintf(text string, args []int32) {
	fmt.Print(text)
}

// ResetHardware zeros every pin and button back to its power-on state;
// InitializeHardware restarts the monotonic clock. Matching the
// Facade's ResetVM sequence: reset, then reinitialize.
func (p *SimPort) ResetHardware() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modes = [256]pinMode{}
	p.digital = [256]uint8{}
	p.analog = [256]uint16{}
	p.buttons = [256]bool{}
}

func (p *SimPort) InitializeHardware() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = time.Now()
}

var _ vm.IOPort = (*SimPort)(nil)
