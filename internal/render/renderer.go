package render

import (
	"context"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int)
	AddDecoration(col, row uint16, content string, frames int)
	RenderLoop(ctx context.Context, period time.Duration, render func(elapsed time.Duration) bool)
	Fill(row, column uint16, message string)
	Clear()
}
