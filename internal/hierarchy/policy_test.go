package hierarchy

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alexanderramin/trestle/internal/remote/remotetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_IsValid(t *testing.T) {
	p := DefaultPolicy()
	require.NoError(t, p.Validate())

	toggle := p.Rule(OpToggleTask)
	assert.True(t, toggle.Optimistic)
	assert.Equal(t, StrategyRevertLocal, toggle.OnFailure)

	for _, op := range Operations {
		if op == OpToggleTask {
			continue
		}
		assert.False(t, p.Rule(op).Optimistic, "%s should wait for the remote", op)
	}
}

func TestPolicy_RuleForUnknownOperation(t *testing.T) {
	r := DefaultPolicy().Rule(Operation("archive_project"))
	assert.False(t, r.Optimistic)
	assert.Equal(t, StrategyRefetchProject, r.OnSuccess)
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(Policy)
		wantErr string
	}{
		{
			name:    "missing rule",
			edit:    func(p Policy) { delete(p, OpEditTask) },
			wantErr: "no rule for edit_task",
		},
		{
			name:    "revert on success",
			edit:    func(p Policy) { p[OpCreateTask] = Rule{OnSuccess: StrategyRevertLocal} },
			wantErr: "cannot revert on success",
		},
		{
			name: "optimistic without undo",
			edit: func(p Policy) {
				p[OpToggleTask] = Rule{Optimistic: true, OnSuccess: StrategyKeep, OnFailure: StrategySurface}
			},
			wantErr: "must revert or refetch",
		},
		{
			name: "pessimistic revert",
			edit: func(p Policy) {
				p[OpDeleteStage] = Rule{OnSuccess: StrategyRefetchProject, OnFailure: StrategyRevertLocal}
			},
			wantErr: "nothing to revert",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.edit(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_RejectsBadConfiguration(t *testing.T) {
	_, err := New(1, nil)
	assert.Error(t, err)

	bad := DefaultPolicy()
	delete(bad, OpToggleTask)
	_, err = New(1, remotetest.New(), WithPolicy(bad))
	assert.Error(t, err)
}

func TestWithLogger_RecordsReconciliation(t *testing.T) {
	f := remotetest.New()
	site := seedSite(f)
	var buf bytes.Buffer
	s := loaded(t, f, site.project.ID, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	f.Fail(remotetest.OpCompleteTask, errors.New("gateway timeout"))
	_, err := s.ToggleTaskCompletion(context.Background(), site.walls.ID)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "toggle reverted")
	assert.Contains(t, buf.String(), "project_id=")

	// A nil logger keeps the default instead of panicking.
	quiet := loaded(t, f, site.project.ID, WithLogger(nil))
	_, err = quiet.ToggleTaskCompletion(context.Background(), site.walls.ID)
	require.NoError(t, err)
}

func TestStrategyAndOutcomeNames(t *testing.T) {
	assert.Equal(t, "refetch_stage", StrategyRefetchStage.String())
	assert.Equal(t, "reverted", OutcomeReverted.String())
	assert.Equal(t, "outcome(42)", Outcome(42).String())
}
