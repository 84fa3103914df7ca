package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/towerctl/internal/provisioning"
)

func TestPrereqs(t *testing.T) {
	env := stubFactories(t)
	names := stubStages(t)

	err := Prereqs(context.Background(), "", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"prerequisites"}, *names)
	assert.Contains(t, env.out.String(), "prerequisites")
}

func TestPrereqs_Aborted(t *testing.T) {
	env := stubFactories(t)
	names := stubStages(t)

	origConfirmer := newConfirmer
	t.Cleanup(func() { newConfirmer = origConfirmer })
	newConfirmer = func() provisioning.Confirmer { return declineConfirmer{} }

	err := Prereqs(context.Background(), "", false)
	require.NoError(t, err)

	assert.Empty(t, *names, "no stage may run after the operator declines")
	assert.Contains(t, env.out.String(), "prerequisites aborted")
}

func TestBaseline(t *testing.T) {
	env := stubFactories(t)
	names := stubStages(t)

	err := Baseline(context.Background(), "", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"prerequisites", "security_baseline"}, *names)
	assert.Contains(t, env.out.String(), "security_baseline")
}

func TestBaseline_Aborted(t *testing.T) {
	env := stubFactories(t)
	names := stubStages(t)

	origConfirmer := newConfirmer
	t.Cleanup(func() { newConfirmer = origConfirmer })
	newConfirmer = func() provisioning.Confirmer { return declineConfirmer{} }

	err := Baseline(context.Background(), "", false)
	require.NoError(t, err)

	assert.Empty(t, *names, "no stage may run after the operator declines")
	assert.Contains(t, env.out.String(), "baseline aborted")
}
