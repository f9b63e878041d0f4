package lang

import "fmt"

// Opcode identifies one slot in a compiled instruction stream.
//
// A stream is a flat sequence of slots. Prefix operators store their
// operand in the slot that follows them: a name slot after OpJump,
// OpFieldGet, OpBind and OpFieldSet, and a child-index slot after
// OpClosure. The skip instructions advance over exactly one slot, so
// operands count as skippable positions just like ordinary opcodes.
type Opcode uint8

const (
	// OpName pushes the value bound to the slot's name. Name slots also
	// serve as the operand of the prefixed opcodes.
	OpName Opcode = iota

	// OpChild is the child-index operand of OpClosure. Executing one
	// directly (reachable only by skipping into it) is a runtime fault.
	OpChild

	OpNewRecord // '*'  push a new empty record
	OpDrop      // '^'  pop and discard
	OpJump      // '@'  unconditional jump to label (name operand)
	OpSkipNE    // '?'  pop x, y; skip next slot when x != y
	OpSkipEQ    // '/'  pop x, y; skip next slot when x == y
	OpFieldGet  // '.'  pop record, push its field (name operand)
	OpBind      // '='  pop value, bind to variable (name operand)
	OpFieldSet  // '=.' pop record then value, set field (name operand)
	OpClosure   // '[]' push closure over a child code (child operand)
	OpApply     // '!'  pop argument then closure, invoke, push result
)

// OperandKind says what, if anything, follows an opcode in the stream.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandName
	OperandChild
)

// OpcodeInfo is per-opcode metadata used by the compiler, the VM and the
// disassembler.
type OpcodeInfo struct {
	Name    string      // human-readable name
	Glyph   string      // surface syntax that produces the opcode
	Operand OperandKind // operand slot expected after this opcode
}

var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpName:      {"NAME", "", OperandNone},
	OpChild:     {"CHILD", "", OperandNone},
	OpNewRecord: {"NEW_RECORD", "*", OperandNone},
	OpDrop:      {"DROP", "^", OperandNone},
	OpJump:      {"JUMP", "@", OperandName},
	OpSkipNE:    {"SKIP_NE", "?", OperandNone},
	OpSkipEQ:    {"SKIP_EQ", "/", OperandNone},
	OpFieldGet:  {"FIELD_GET", ".", OperandName},
	OpBind:      {"BIND", "=", OperandName},
	OpFieldSet:  {"FIELD_SET", "=.", OperandName},
	OpClosure:   {"CLOSURE", "[]", OperandChild},
	OpApply:     {"APPLY", "!", OperandNone},
}

// GetOpcodeInfo returns metadata for an opcode. Unknown opcodes get a
// placeholder name so the disassembler never panics on corrupt input.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(%d)", uint8(op))}
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// Operand returns the operand kind expected after this opcode.
func (op Opcode) Operand() OperandKind {
	return GetOpcodeInfo(op).Operand
}

// AllOpcodes returns every defined opcode; used by tests to check that
// the metadata table stays total.
func AllOpcodes() []Opcode {
	ops := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		ops = append(ops, op)
	}
	return ops
}

// Instr is one stream slot: an opcode slot, a name slot, or a
// child-index slot. Name carries the payload of OpName slots and Child
// the payload of OpChild slots.
type Instr struct {
	Op    Opcode
	Name  string
	Child int
}

func nameSlot(name string) Instr { return Instr{Op: OpName, Name: name} }
func childSlot(idx int) Instr    { return Instr{Op: OpChild, Child: idx} }

// String renders the slot the way it appears in a disassembly listing.
func (in Instr) String() string {
	switch in.Op {
	case OpName:
		return in.Name
	case OpChild:
		return fmt.Sprintf("#%d", in.Child)
	default:
		return GetOpcodeInfo(in.Op).Name
	}
}
