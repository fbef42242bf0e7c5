package verify

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/synvm/core"
)

// RunLint walks the instructions reachable from address 0 and reports
// the ones that would fault no matter what the registers hold. Targets
// held in registers are not followed.
func RunLint(image []core.Word) []Issue {
	mem := core.NewMemory(image)
	visited := make(map[core.Word]bool)
	work := []core.Word{0}
	issues := []Issue{}

	for len(work) > 0 {
		pc := work[len(work)-1]
		work = work[:len(work)-1]

		for !visited[pc] {
			visited[pc] = true

			inst, next, err := core.Decode(mem, pc)
			if err != nil {
				issues = append(issues, decodeIssue(pc, err))
				break
			}

			issues = append(issues, checkOperands(inst)...)

			for _, target := range branchTargets(inst) {
				if int(target) >= len(image) {
					issues = append(issues, Issue{
						Type: IssueFlow,
						Addr: pc,
						Message: fmt.Sprintf("%s targets %d past the image end %d",
							inst.Opcode, target, len(image)),
						Details: map[string]interface{}{"target": target},
					})
					continue
				}
				work = append(work, target)
			}

			if !fallsThrough(inst.Opcode) {
				break
			}
			pc = next
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Addr < issues[j].Addr
	})

	return issues
}

func decodeIssue(pc core.Word, err error) Issue {
	issue := Issue{Type: IssueStruct, Addr: pc, Message: err.Error()}

	var f *core.Fault
	if errors.As(err, &f) {
		issue.Details = map[string]interface{}{"kind": f.Kind.Error()}
	}

	return issue
}

func checkOperands(inst core.Instruction) []Issue {
	var issues []Issue

	for n := 0; n < inst.Opcode.Arity(); n++ {
		w := inst.Operand(n)

		switch {
		case n == 0 && inst.Opcode.HasDest():
			// Destinations are register indexes modulo 32768.
			if int(w)%core.Modulus >= core.NumRegisters {
				issues = append(issues, Issue{
					Type: IssueStruct,
					Addr: inst.Addr,
					Message: fmt.Sprintf("%s: destination %d names no register",
						inst.Opcode, w),
					Details: map[string]interface{}{"operand": n, "word": w},
				})
			}
		case !w.IsLiteral() && !w.IsRegister():
			issues = append(issues, Issue{
				Type: IssueStruct,
				Addr: inst.Addr,
				Message: fmt.Sprintf("%s: operand %d is %d, not a value",
					inst.Opcode, n, w),
				Details: map[string]interface{}{"operand": n, "word": w},
			})
		}
	}

	return issues
}

// branchTargets returns the literal addresses an instruction may jump to.
func branchTargets(inst core.Instruction) []core.Word {
	var w core.Word

	switch inst.Opcode {
	case core.Jmp, core.Call:
		w = inst.Operand(0)
	case core.Jt, core.Jf:
		w = inst.Operand(1)
	default:
		return nil
	}

	if !w.IsLiteral() {
		return nil
	}

	return []core.Word{w}
}

func fallsThrough(op core.Opcode) bool {
	switch op {
	case core.Hlt, core.Jmp, core.Ret:
		return false
	default:
		return true
	}
}
