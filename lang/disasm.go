package lang

import (
	"fmt"
	"sort"
	"strings"
)

// Disassemble returns a human-readable listing of the code: source text,
// labels, variable sets, the instruction stream with source offsets, and
// each child code indented beneath it.
func (c *Code) Disassemble() string {
	var sb strings.Builder
	c.disassemble(&sb, "", "code")
	return sb.String()
}

func (c *Code) disassemble(sb *strings.Builder, indent, name string) {
	fmt.Fprintf(sb, "%s; === %s === %q\n", indent, name, c.Text)

	if len(c.Labels) > 0 {
		names := make([]string, 0, len(c.Labels))
		for l := range c.Labels {
			names = append(names, l)
		}
		sort.Strings(names)
		fmt.Fprintf(sb, "%s; Labels:", indent)
		for _, l := range names {
			fmt.Fprintf(sb, " %s=%d", l, c.Labels[l])
		}
		sb.WriteString("\n")
	}
	if free := setNames(c.FreeVars()); len(free) > 0 {
		fmt.Fprintf(sb, "%s; Free: %s\n", indent, strings.Join(free, " "))
	}
	if assigned := setNames(c.AssignedVars()); len(assigned) > 0 {
		fmt.Fprintf(sb, "%s; Assigned: %s\n", indent, strings.Join(assigned, " "))
	}

	for pos := 0; pos < len(c.Instrs); pos++ {
		at := pos
		in := c.Instrs[pos]
		line := in.Op.String()
		if in.Op.Operand() != OperandNone && pos+1 < len(c.Instrs) {
			pos++
			line += " " + c.Instrs[pos].String()
		} else if in.Op == OpName {
			line += " " + in.Name
		}
		fmt.Fprintf(sb, "%s%04d  %-16s ; offset %d\n", indent, at, line, c.SourceOffset(at))
	}

	for i, child := range c.Children {
		child.disassemble(sb, indent+"  ", fmt.Sprintf("child %d", i))
	}
}

func setNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
