package bytecode

import "github.com/opengm-go/gmvm/op"

// ExceptionHandler describes a protected region of a script. The region
// starts at the PUSH_EXCEPT instruction and faults raised inside it resume
// at HandlerStart with the fault message pushed on the stack.
type ExceptionHandler struct {
	TryStart     int // IP of the PUSH_EXCEPT instruction
	TryEnd       int // IP of the matching POP_EXCEPT (-1 if none)
	HandlerStart int // IP execution resumes at after a fault
}

func findHandlers(code *Code) []ExceptionHandler {
	var handlers []ExceptionHandler
	var open []int
	iter := NewInstructionIter(code)
	for {
		ip := iter.Offset()
		instr, ok := iter.Next()
		if !ok {
			break
		}
		switch instr[0] {
		case op.PushExcept:
			if len(instr) < 2 {
				continue
			}
			handlers = append(handlers, ExceptionHandler{
				TryStart:     ip,
				TryEnd:       -1,
				HandlerStart: int(instr[1]),
			})
			open = append(open, len(handlers)-1)
		case op.PopExcept:
			if len(open) == 0 {
				continue
			}
			handlers[open[len(open)-1]].TryEnd = ip
			open = open[:len(open)-1]
		}
	}
	return handlers
}
