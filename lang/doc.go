// Package lang implements the skein language: a compiler from
// concatenative source text to a flat instruction stream, and a stack
// virtual machine that executes it.
//
// The surface syntax is one character per operation. Identifier
// characters push the variable they name; '*' pushes a new record, '^'
// pops, '!' applies a closure, '?' and '/' compare-and-skip; the prefix
// operators '.' '@' ':' '=' '=.' take one identifier character as their
// operand, and '[' ... ']' compiles its body into a nested child Code
// reachable through a closure-creation instruction.
//
// The components:
//
//   - Code: the immutable compiled artifact. A flat slot stream (operands
//     occupy the slot after their opcode), a label table, child codes for
//     closure bodies, and a position-to-source-offset map for
//     diagnostics. Assigned- and free-variable sets are computed lazily
//     and cached.
//
//   - VM: executes a Code against a Vars mapping and a value stack,
//     failing fast on the first fault with a RunError that carries the
//     code, vars, stack and position of the failure. An optional Tracer
//     observes every step.
//
//   - Values: records (mutable, reference-shared, cycles allowed) and
//     closures (child code plus a private snapshot of its free
//     variables). Record mutation is the only side channel between a
//     closure call and its caller.
//
// Compiled code can be rendered with Disassemble and serialized to a
// versioned CBOR image with MarshalCode/UnmarshalCode.
package lang
