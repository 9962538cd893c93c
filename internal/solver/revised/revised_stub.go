//go:build !cgo || !golp

package revised

import (
	"context"

	"lpdss/internal/solver/model"
)

func solveImpl(ctx context.Context, m *model.Model) (*Result, error) {
	return nil, ErrUnavailable
}
