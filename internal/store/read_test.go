package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ndk/internal/notation"
)

func TestReadTheorem_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadTheorem(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListTheorems_Empty(t *testing.T) {
	s := createTestStore(t)

	all, err := s.ListTheorems(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestListTheorems_RecordingOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := s.WriteTheorem(ctx, identityResult(t, name, "p"))
		require.NoError(t, err)
	}

	all, err := s.ListTheorems(ctx)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, th := range all {
		names[i] = th.Name
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestFindByStatement(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteTheorem(ctx, identityResult(t, "id_conj", "p & q"))
	require.NoError(t, err)
	_, err = s.WriteTheorem(ctx, identityResult(t, "id_conj_again", "p /\\ q"))
	require.NoError(t, err)
	_, err = s.WriteTheorem(ctx, identityResult(t, "id_p", "p"))
	require.NoError(t, err)

	found, err := s.FindByStatement(ctx, notation.MustParse("p ∧ q → p ∧ q"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "id_conj", found[0].Name)
	assert.Equal(t, "id_conj_again", found[1].Name)

	none, err := s.FindByStatement(ctx, notation.MustParse("q"))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestReadSteps(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := identityResult(t, "identity", "p")

	_, err := s.WriteTheorem(ctx, r)
	require.NoError(t, err)

	steps, err := s.ReadSteps(ctx, r.Theorem.ID)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, 0, steps[0].Index)
	assert.Equal(t, "a", steps[0].StepID)
	assert.Equal(t, "suppose", steps[0].Rule)
	assert.Equal(t, "p", steps[0].Conclusion)
	assert.Equal(t, []string{"1"}, steps[0].Open)

	assert.Equal(t, "impl_intro", steps[1].Rule)
	assert.Equal(t, "p → p", steps[1].Conclusion)
	assert.Equal(t, []string{}, steps[1].Open)
}

func TestReadSteps_Unknown(t *testing.T) {
	s := createTestStore(t)

	steps, err := s.ReadSteps(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, steps)
	assert.Empty(t, steps)
}
