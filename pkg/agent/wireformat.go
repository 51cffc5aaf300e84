package agent

import "regexp"

// The ReAct wire format is a fixed set of line-anchored prefixes. An LLM
// turn contains at most one Thought, and then either an Action/Action
// Input pair or a Final Answer — never both.
var (
	thoughtPattern     = regexp.MustCompile(`(?m)^Thought:\s*(.+)$`)
	actionPattern      = regexp.MustCompile(`(?m)^Action:\s*(\S+)\s*$`)
	actionInputPattern = regexp.MustCompile(`(?m)^Action Input:\s*(.+)$`)
	finalAnswerPattern = regexp.MustCompile(`(?m)^Final Answer:\s*(.+)$`)
)

// step is one parsed LLM turn.
type step struct {
	Thought     string
	Action      string
	ActionInput string
	FinalAnswer string
	HasAction   bool
	HasFinal    bool
}

// parseStep extracts the wire-format fields from a raw LLM turn. A turn
// with neither an Action nor a Final Answer is treated as having no action
// (the caller decides how to recover — e.g. by prompting again or failing
// after MaxIterations).
func parseStep(text string) step {
	var s step

	if m := thoughtPattern.FindStringSubmatch(text); m != nil {
		s.Thought = m[1]
	}
	if m := finalAnswerPattern.FindStringSubmatch(text); m != nil {
		s.FinalAnswer = m[1]
		s.HasFinal = true
		return s
	}
	if m := actionPattern.FindStringSubmatch(text); m != nil {
		s.Action = m[1]
		s.HasAction = true
	}
	if m := actionInputPattern.FindStringSubmatch(text); m != nil {
		s.ActionInput = m[1]
	}
	return s
}
