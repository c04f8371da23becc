package models

// BudgetPeriod defines the time window for a budget policy.
type BudgetPeriod string

const (
	BudgetHourly  BudgetPeriod = "hourly"
	BudgetDaily   BudgetPeriod = "daily"
	BudgetMonthly BudgetPeriod = "monthly"
)

// BudgetPolicy caps token spend for a provider and/or task kind per
// period. An empty Provider or Task matches all.
type BudgetPolicy struct {
	Provider  string       `json:"provider,omitempty" yaml:"provider,omitempty"`
	Task      TaskKind     `json:"task,omitempty" yaml:"task,omitempty"`
	MaxTokens int64        `json:"max_tokens" yaml:"max_tokens"`
	Period    BudgetPeriod `json:"period" yaml:"period"`
}

// BudgetStatus shows current usage against a policy.
type BudgetStatus struct {
	Policy    BudgetPolicy `json:"policy"`
	Used      int64        `json:"used"`
	Remaining int64        `json:"remaining"`
}
