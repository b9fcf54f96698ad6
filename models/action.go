package models

// ActionType classifies a recommended action.
type ActionType string

const (
	ActionIntegration  ActionType = "integration"
	ActionFeature      ActionType = "feature"
	ActionPartnership  ActionType = "partnership"
	ActionEvent        ActionType = "event"
	ActionMonitoring   ActionType = "monitoring"
	ActionOptimization ActionType = "optimization"
	ActionExpansion    ActionType = "expansion"
)

func ActionTypes() []ActionType {
	return []ActionType{
		ActionIntegration,
		ActionFeature,
		ActionPartnership,
		ActionEvent,
		ActionMonitoring,
		ActionOptimization,
		ActionExpansion,
	}
}

// ParseActionType reports whether s is one of the seven action types.
// Matching is exact, the way model output is validated.
func ParseActionType(s string) (ActionType, bool) {
	t := ActionType(s)
	switch t {
	case ActionIntegration, ActionFeature, ActionPartnership, ActionEvent,
		ActionMonitoring, ActionOptimization, ActionExpansion:
		return t, true
	}
	return "", false
}

func (t ActionType) Label() string {
	switch t {
	case ActionIntegration:
		return "Integration"
	case ActionFeature:
		return "New Feature"
	case ActionPartnership:
		return "Partnership"
	case ActionEvent:
		return "Event"
	case ActionMonitoring:
		return "Monitoring"
	case ActionOptimization:
		return "Optimization"
	case ActionExpansion:
		return "Expansion"
	}
	return string(t)
}

func (t ActionType) Icon() string {
	switch t {
	case ActionIntegration:
		return "Plug"
	case ActionFeature:
		return "Sparkles"
	case ActionPartnership:
		return "Handshake"
	case ActionEvent:
		return "Calendar"
	case ActionMonitoring:
		return "Eye"
	case ActionOptimization:
		return "Zap"
	case ActionExpansion:
		return "Globe"
	}
	return "Circle"
}

func (t ActionType) Color() string {
	switch t {
	case ActionIntegration:
		return "hsl(220, 90%, 60%)"
	case ActionFeature:
		return "hsl(270, 80%, 60%)"
	case ActionPartnership:
		return "hsl(145, 70%, 50%)"
	case ActionEvent:
		return "hsl(35, 90%, 55%)"
	case ActionMonitoring:
		return "hsl(185, 100%, 50%)"
	case ActionOptimization:
		return "hsl(340, 80%, 60%)"
	case ActionExpansion:
		return "hsl(50, 90%, 50%)"
	}
	return "hsl(0, 0%, 60%)"
}

// Scores are the six 0-100 values shared by actions and tickets.
type Scores struct {
	PriorityScore   int `json:"priorityScore"`
	ImpactScore     int `json:"impactScore"`
	RiskScore       int `json:"riskScore"`
	RelevanceScore  int `json:"relevanceScore"`
	DifficultyScore int `json:"difficultyScore"`
	CostScore       int `json:"costScore"`
}

// PrioritizedAction is a recommended action derived from one or more events.
type PrioritizedAction struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Scores
	RecommendedSteps []string   `json:"recommendedSteps"`
	SourceEventIDs   []string   `json:"sourceEventIds"`
	ActionType       ActionType `json:"actionType"`
}
