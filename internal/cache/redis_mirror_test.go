package cache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"lpdss/internal/solver/model"
	"lpdss/internal/solver/solve"
)

func TestRedisMirror_NilClientIsNoOp(t *testing.T) {
	m := NewRedisMirror(nil, zap.NewNop())
	e := &Entry{ModelText: "max 1\n1 <= 2\n+", Model: &model.Model{}, Result: &solve.Result{Success: true}}
	m.Write(context.Background(), e)
}

func TestRedisMirror_NilMirrorIsNoOp(t *testing.T) {
	var m *RedisMirror
	e := &Entry{ModelText: "max 1\n1 <= 2\n+"}
	m.Write(context.Background(), e)
}

func TestRedisMirror_NilEntryIsNoOp(t *testing.T) {
	m := NewRedisMirror(nil, zap.NewNop())
	m.Write(context.Background(), nil)
}
