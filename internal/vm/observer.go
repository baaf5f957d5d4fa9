package vm

// Observer is the minimal event sink set. It is a borrowed handle —
// the Facade never takes ownership of it — and must not call back
// into the Facade during notification; doing so is undefined
// behaviour.
type Observer interface {
	OnInstructionExecuted(pc int, opcode Opcode, operand int32)
	OnExecutionComplete(instructions uint64, elapsedMs uint32)
	OnVMReset()
}

// observerList is an ordered, insertion-preserving sequence of
// observer handles. Removal is by identity.
type observerList struct {
	observers []Observer
}

func (l *observerList) add(o Observer) {
	l.observers = append(l.observers, o)
}

func (l *observerList) remove(o Observer) {
	for i, existing := range l.observers {
		if existing == o {
			l.observers = append(l.observers[:i], l.observers[i+1:]...)
			return
		}
	}
}

func (l *observerList) clear() {
	l.observers = nil
}

func (l *observerList) notifyInstructionExecuted(pc int, opcode Opcode, operand int32) {
	for _, o := range l.observers {
		o.OnInstructionExecuted(pc, opcode, operand)
	}
}

func (l *observerList) notifyExecutionComplete(instructions uint64, elapsedMs uint32) {
	for _, o := range l.observers {
		o.OnExecutionComplete(instructions, elapsedMs)
	}
}

func (l *observerList) notifyVMReset() {
	for _, o := range l.observers {
		o.OnVMReset()
	}
}
