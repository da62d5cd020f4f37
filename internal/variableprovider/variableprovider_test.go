package variableprovider

import (
	"testing"

	"github.com/heartmarshall/ldatranslate/internal/voting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyGlobal_PerTopicWinsOverGlobal(t *testing.T) {
	p := New().
		SetGlobal("X", voting.Number(1)).
		SetPerTopic(0, "X", voting.Number(2))

	ctx0 := voting.NewContext()
	p.ApplyGlobal(ctx0, 0)
	v, err := ctx0.Get("X")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.Num)

	ctx1 := voting.NewContext()
	p.ApplyGlobal(ctx1, 1)
	v, err = ctx1.Get("X")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Num)
}

func TestApplyVoter_PerTopicWordWinsOverPerWord(t *testing.T) {
	p := New().
		SetPerWord(SideA, "foo", "IMPORTANCE", voting.Number(2)).
		SetPerTopicWord(SideA, 0, "foo", "IMPORTANCE", voting.Number(5))

	ctx0 := voting.NewContext()
	p.ApplyVoter(ctx0, SideA, 0, "foo")
	v, err := ctx0.Get("IMPORTANCE")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Num)

	ctx1 := voting.NewContext()
	p.ApplyVoter(ctx1, SideA, 1, "foo")
	v, err = ctx1.Get("IMPORTANCE")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.Num)
}

func TestApplyVoter_SidesAreIndependent(t *testing.T) {
	p := New().SetPerWord(SideA, "foo", "IMPORTANCE", voting.Number(9))

	ctxB := voting.NewContext()
	p.ApplyVoter(ctxB, SideB, 0, "foo")
	_, err := ctxB.Get("IMPORTANCE")
	assert.Error(t, err)
}

func TestNilProvider_NoOp(t *testing.T) {
	var p *Provider
	ctx := voting.NewContext()
	assert.NotPanics(t, func() {
		p.ApplyGlobal(ctx, 0)
		p.ApplyVoter(ctx, SideA, 0, "foo")
	})
}
