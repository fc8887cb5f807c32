package etrequest

// State 采购请求生命周期状态
type State string

const (
	StateReceived        State = "RECEIVED"
	StateValidating      State = "VALIDATING"
	StateRejected        State = "REJECTED"
	StatePendingApproval State = "PENDING_APPROVAL"
	StateEscalated       State = "ESCALATED"
	StateApproved        State = "APPROVED"
	StateCommitted       State = "COMMITTED"
)

// transitionGraph 状态流转图
// received -> validating -> {rejected | pending_approval}
// pending_approval -> {approved | escalated | rejected}
// escalated -> {approved | rejected}
// approved -> committed
var transitionGraph = map[State][]State{
	StateReceived:        {StateValidating},
	StateValidating:      {StateRejected, StatePendingApproval},
	StatePendingApproval: {StateApproved, StateEscalated, StateRejected},
	StateEscalated:       {StateApproved, StateRejected},
	StateApproved:        {StateCommitted},
}

// terminalStates 终态（不允许任何流出）
var terminalStates = map[State]bool{
	StateRejected:  true,
	StateCommitted: true,
}

// awaitableStates 等待人工决策的状态
var awaitableStates = map[State]bool{
	StatePendingApproval: true,
	StateEscalated:       true,
}

// IsTerminal 是否为终态
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsAwaitable 是否等待人工决策
func (s State) IsAwaitable() bool {
	return awaitableStates[s]
}

// IsValid 是否为合法状态
func (s State) IsValid() bool {
	if terminalStates[s] {
		return true
	}
	_, ok := transitionGraph[s]
	return ok
}

// CanTransitionTo 是否允许流转到目标状态
func (s State) CanTransitionTo(target State) bool {
	for _, next := range transitionGraph[s] {
		if next == target {
			return true
		}
	}
	return false
}

// String 返回状态字符串
func (s State) String() string {
	return string(s)
}
