package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
	"github.com/droidpilot-ai/droidpilot/pkg/tracker"
)

func seedUsage(t *testing.T, tr tracker.Tracker, provider string, task models.TaskKind, tokens int) {
	t.Helper()
	err := tr.Record(context.Background(), models.UsageRecord{
		Provider:    provider,
		Model:       "m",
		Task:        task,
		TotalTokens: tokens,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed usage: %v", err)
	}
}

func TestCheckUnderBudget(t *testing.T) {
	tr := tracker.NewMemory(nil)
	seedUsage(t, tr, "openai", models.TaskGenerate, 100)

	e := New([]models.BudgetPolicy{
		{MaxTokens: 1000, Period: models.BudgetDaily},
	}, tr)

	if err := e.Check(context.Background(), "openai", models.TaskGenerate); err != nil {
		t.Errorf("check under budget: %v", err)
	}
}

func TestCheckExceeded(t *testing.T) {
	tr := tracker.NewMemory(nil)
	seedUsage(t, tr, "openai", models.TaskGenerate, 1000)

	e := New([]models.BudgetPolicy{
		{MaxTokens: 500, Period: models.BudgetDaily},
	}, tr)

	err := e.Check(context.Background(), "openai", models.TaskGenerate)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("err = %v, want ErrBudgetExceeded", err)
	}
}

func TestCheckPolicyScoping(t *testing.T) {
	tr := tracker.NewMemory(nil)
	seedUsage(t, tr, "openai", models.TaskGenerate, 1000)

	e := New([]models.BudgetPolicy{
		{Provider: "gemini", MaxTokens: 500, Period: models.BudgetDaily},
		{Task: models.TaskFix, MaxTokens: 500, Period: models.BudgetDaily},
	}, tr)

	// openai generate usage matches neither scoped policy.
	if err := e.Check(context.Background(), "openai", models.TaskGenerate); err != nil {
		t.Errorf("check with unrelated policies: %v", err)
	}
	// gemini is over its provider-scoped policy only via gemini usage.
	if err := e.Check(context.Background(), "gemini", models.TaskGenerate); err != nil {
		t.Errorf("gemini has no usage yet: %v", err)
	}

	seedUsage(t, tr, "gemini", models.TaskGenerate, 600)
	err := e.Check(context.Background(), "gemini", models.TaskGenerate)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("err = %v, want ErrBudgetExceeded for scoped policy", err)
	}
}

func TestCheckNoPolicies(t *testing.T) {
	e := New(nil, tracker.NewMemory(nil))
	if err := e.Check(context.Background(), "openai", models.TaskGenerate); err != nil {
		t.Errorf("check without policies: %v", err)
	}
}

func TestStatus(t *testing.T) {
	tr := tracker.NewMemory(nil)
	seedUsage(t, tr, "openai", models.TaskGenerate, 300)

	e := New([]models.BudgetPolicy{
		{Provider: "openai", MaxTokens: 1000, Period: models.BudgetDaily},
		{Provider: "openai", MaxTokens: 100, Period: models.BudgetDaily},
	}, tr)

	statuses, err := e.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want one per policy", len(statuses))
	}
	if statuses[0].Used != 300 || statuses[0].Remaining != 700 {
		t.Errorf("status[0] = %d used / %d remaining", statuses[0].Used, statuses[0].Remaining)
	}
	// Remaining never goes negative.
	if statuses[1].Remaining != 0 {
		t.Errorf("status[1] remaining = %d, want clamped to 0", statuses[1].Remaining)
	}
}
