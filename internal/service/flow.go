package service

import (
	"hr-intake-bot/internal/constant"
	"hr-intake-bot/internal/model"
)

// flowStep describes what happens when a text answer arrives in a given
// state: which field the answer fills, the next prompt to emit, and the
// state to move to. The sequence is fixed; see Advance.
type flowStep struct {
	store func(*model.CandidateFields, string)
	reply string
	next  model.FlowState
}

var flowSteps = map[model.FlowState]flowStep{
	model.StateName: {
		store: func(f *model.CandidateFields, v string) { f.Name = v },
		reply: constant.MsgAskEmail,
		next:  model.StateEmail,
	},
	model.StateEmail: {
		store: func(f *model.CandidateFields, v string) { f.Email = v },
		reply: constant.MsgAskPhone,
		next:  model.StatePhone,
	},
	model.StatePhone: {
		store: func(f *model.CandidateFields, v string) { f.Phone = v },
		reply: constant.MsgAskPosition,
		next:  model.StatePosition,
	},
	model.StatePosition: {
		store: func(f *model.CandidateFields, v string) { f.Position = v },
		reply: constant.MsgAskSource,
		next:  model.StateSource,
	},
	model.StateSource: {
		store: func(f *model.CandidateFields, v string) { f.Source = v },
		reply: constant.MsgAskFile,
		next:  model.StateAwaitFile,
	},
}

// Advance applies one trimmed text answer to the session fields and returns
// the next prompt and state. It is a pure transition: no I/O, no session
// mutation beyond the field write. ok is false when the state does not
// expect a text answer (entry, await-file, terminal states).
//
// Empty answers are accepted and stored as empty strings; this mirrors the
// flow's documented default (see DESIGN.md) rather than an oversight.
func Advance(state model.FlowState, fields *model.CandidateFields, answer string) (next model.FlowState, reply string, ok bool) {
	step, found := flowSteps[state]
	if !found {
		return state, "", false
	}
	step.store(fields, answer)
	return step.next, step.reply, true
}
