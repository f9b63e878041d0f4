package lang

import "fmt"

// Tracer observes execution. Step fires before each instruction and
// Return fires once when a run reaches the end of its stream. Each
// record carries the current position, the stack depth and the sorted
// set of bound variable names.
type Tracer interface {
	Step(pos, depth int, names []string)
	Return(pos, depth int, names []string)
}

// VM executes compiled code. The zero value is ready to use; set Tracer
// to observe execution.
//
// The VM never retries and never recovers mid-run: the first runtime
// fault aborts the run with a *RunError. It also imposes no step budget;
// an unconditional jump loop runs until the process is interrupted, and
// any bound must be applied by the caller.
type VM struct {
	Tracer Tracer
}

// Execute runs code against vars and stack starting at pos, until the
// position passes the end of the instruction stream or a fault occurs.
// It returns the final vars, stack and position. Nil vars or stack are
// replaced with fresh empty ones.
func (vm *VM) Execute(code *Code, vars Vars, stack Stack, pos int) (Vars, Stack, int, error) {
	if vars == nil {
		vars = make(Vars)
	}
	if stack == nil {
		stack = make(Stack, 0, 8)
	}

	fail := func(msg string) (Vars, Stack, int, error) {
		return vars, stack, pos, &RunError{Msg: msg, Code: code, Vars: vars, Stack: stack, Pos: pos}
	}
	pop := func() (Value, bool) {
		if len(stack) == 0 {
			return nil, false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, true
	}
	// operand returns the slot following pos; the compiler always emits
	// it, so absence means the stream was built by hand and is corrupt.
	operand := func() (Instr, bool) {
		if pos+1 >= len(code.Instrs) {
			return Instr{}, false
		}
		return code.Instrs[pos+1], true
	}

	instrs := code.Instrs
	for pos < len(instrs) {
		if vm.Tracer != nil {
			vm.Tracer.Step(pos, len(stack), boundNames(vars))
		}

		in := instrs[pos]
		switch in.Op {
		case OpNewRecord:
			stack = append(stack, NewRecord())
			pos++

		case OpDrop:
			if _, ok := pop(); !ok {
				return fail("pop from empty stack")
			}
			pos++

		case OpJump:
			arg, ok := operand()
			if !ok {
				return fail("jump without label operand")
			}
			target, ok := code.Labels[arg.Name]
			if !ok {
				return fail(fmt.Sprintf("unknown label: %q", arg.Name))
			}
			pos = target

		case OpSkipNE, OpSkipEQ:
			x, ok := pop()
			if !ok {
				return fail("pop from empty stack")
			}
			y, ok := pop()
			if !ok {
				return fail("pop from empty stack")
			}
			pos++
			eq := Equal(x, y)
			if (in.Op == OpSkipNE && !eq) || (in.Op == OpSkipEQ && eq) {
				pos++ // skip exactly one slot
			}

		case OpFieldGet:
			arg, ok := operand()
			if !ok {
				return fail("field read without name operand")
			}
			v, ok := pop()
			if !ok {
				return fail("pop from empty stack")
			}
			rec, ok := v.(*Record)
			if !ok {
				return fail(fmt.Sprintf("field read %q of non-record value", arg.Name))
			}
			field, ok := rec.Fields[arg.Name]
			if !ok {
				return fail(fmt.Sprintf("missing field: %q", arg.Name))
			}
			stack = append(stack, field)
			pos += 2

		case OpBind:
			arg, ok := operand()
			if !ok {
				return fail("bind without name operand")
			}
			v, ok := pop()
			if !ok {
				return fail("pop from empty stack")
			}
			vars[arg.Name] = v
			pos += 2

		case OpFieldSet:
			arg, ok := operand()
			if !ok {
				return fail("field write without name operand")
			}
			v, ok := pop()
			if !ok {
				return fail("pop from empty stack")
			}
			rec, isRec := v.(*Record)
			if !isRec {
				return fail(fmt.Sprintf("field write %q to non-record value", arg.Name))
			}
			x, ok := pop()
			if !ok {
				return fail("pop from empty stack")
			}
			rec.Fields[arg.Name] = x
			pos += 2

		case OpClosure:
			arg, ok := operand()
			if !ok || arg.Child >= len(code.Children) {
				return fail("closure without child operand")
			}
			child := code.Children[arg.Child]
			captured := make(Vars)
			for name := range child.FreeVars() {
				v, bound := vars[name]
				if !bound {
					return fail(fmt.Sprintf("unbound free variable in closure: %q", name))
				}
				captured[name] = v
			}
			stack = append(stack, &Closure{Code: child, Vars: captured})
			pos += 2

		case OpApply:
			x, ok := pop()
			if !ok {
				return fail("pop from empty stack")
			}
			v, ok := pop()
			if !ok {
				return fail("pop from empty stack")
			}
			f, ok := v.(*Closure)
			if !ok {
				return fail("apply of non-closure value")
			}
			result, err := f.Call(vm, x)
			if err != nil {
				// The inner fault already carries the offending frame.
				return vars, stack, pos, err
			}
			stack = append(stack, result)
			pos++

		case OpName:
			v, ok := vars[in.Name]
			if !ok {
				return fail(fmt.Sprintf("unbound name: %q", in.Name))
			}
			stack = append(stack, v)
			pos++

		default:
			// OpChild reached by skipping into an operand, or a corrupt
			// stream.
			return fail(fmt.Sprintf("unknown instruction: %s", in))
		}
	}

	if vm.Tracer != nil {
		vm.Tracer.Return(pos, len(stack), boundNames(vars))
	}
	return vars, stack, pos, nil
}

// Call invokes the closure with one argument: the captured vars are
// copied, the argument is appended to a copy of the captured partial
// stack, and execution resumes at the stored position. The run must
// leave exactly one value on the stack; that value is the result.
func (f *Closure) Call(vm *VM, arg Value) (Value, error) {
	if vm == nil {
		vm = &VM{}
	}
	stack := make(Stack, len(f.Stack), len(f.Stack)+1)
	copy(stack, f.Stack)
	stack = append(stack, arg)

	vars, stack, pos, err := vm.Execute(f.Code, f.Vars.Copy(), stack, f.Pos)
	if err != nil {
		return nil, err
	}
	if len(stack) != 1 {
		return nil, &RunError{
			Msg:   fmt.Sprintf("on closure return, stack size should be 1, but was: %d", len(stack)),
			Code:  f.Code,
			Vars:  vars,
			Stack: stack,
			Pos:   pos,
		}
	}
	return stack[0], nil
}
