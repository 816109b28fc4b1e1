package engine

import "golang.org/x/arch/x86/x86asm"

// MaxInstLen is the longest legal x86 instruction.
const MaxInstLen = 15

// maxBlockInsts bounds how far a block is decoded ahead.
const maxBlockInsts = 256

// An Inst is the part of a decoded instruction the engine cares about.
type Inst struct {
	Len int
	// Branch is set if the instruction may transfer control.
	Branch bool
	// Repeat is set for rep-prefixed string instructions, which stop once
	// per iteration when single-stepped.
	Repeat bool
}

// Decode decodes the instruction at the start of code. Undecodable bytes are
// treated as a one-byte branch.
func Decode(code []byte) Inst {
	inst, err := x86asm.Decode(code, 64)
	if err != nil || inst.Len == 0 {
		return Inst{Len: 1, Branch: true}
	}
	d := Inst{Len: inst.Len, Branch: isBranch(inst.Op)}
	for _, p := range inst.Prefix {
		if p == 0 {
			break
		}
		if p&0xff == x86asm.PrefixREP || p&0xff == x86asm.PrefixREPN {
			d.Repeat = isString(inst.Op)
		}
	}
	return d
}

func isString(op x86asm.Op) bool {
	switch op {
	case x86asm.MOVSB, x86asm.MOVSW, x86asm.MOVSD, x86asm.MOVSQ,
		x86asm.STOSB, x86asm.STOSW, x86asm.STOSD, x86asm.STOSQ,
		x86asm.LODSB, x86asm.LODSW, x86asm.LODSD, x86asm.LODSQ,
		x86asm.CMPSB, x86asm.CMPSW, x86asm.CMPSD, x86asm.CMPSQ,
		x86asm.SCASB, x86asm.SCASW, x86asm.SCASD, x86asm.SCASQ,
		x86asm.INSB, x86asm.INSW, x86asm.INSD,
		x86asm.OUTSB, x86asm.OUTSW, x86asm.OUTSD:
		return true
	}
	return false
}

func isBranch(op x86asm.Op) bool {
	switch op {
	case x86asm.JMP, x86asm.LJMP,
		x86asm.JA, x86asm.JAE, x86asm.JB, x86asm.JBE, x86asm.JE, x86asm.JNE,
		x86asm.JG, x86asm.JGE, x86asm.JL, x86asm.JLE,
		x86asm.JO, x86asm.JNO, x86asm.JP, x86asm.JNP, x86asm.JS, x86asm.JNS,
		x86asm.JCXZ, x86asm.JECXZ, x86asm.JRCXZ,
		x86asm.LOOP, x86asm.LOOPE, x86asm.LOOPNE,
		x86asm.CALL, x86asm.LCALL, x86asm.RET, x86asm.LRET,
		x86asm.IRET, x86asm.IRETD, x86asm.IRETQ,
		x86asm.SYSCALL, x86asm.SYSENTER, x86asm.SYSEXIT, x86asm.SYSRET,
		x86asm.INT, x86asm.INTO, x86asm.UD1, x86asm.UD2, x86asm.HLT:
		return true
	}
	return false
}

// BlockLen decodes forward from the start of code and returns the length of
// the basic block beginning there: up to and including the first control
// transfer. If code runs out first, the decoded prefix is returned and
// complete is false.
func BlockLen(code []byte) (n int, complete bool) {
	for i := 0; i < maxBlockInsts && n < len(code); i++ {
		inst, err := x86asm.Decode(code[n:], 64)
		if err != nil {
			if len(code)-n < MaxInstLen {
				// possibly cut off mid-instruction
				return n, false
			}
			return n + 1, true
		}
		n += inst.Len
		if isBranch(inst.Op) {
			return n, true
		}
	}
	return n, n < len(code)
}
