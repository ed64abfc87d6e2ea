package ports

import (
	"context"

	"fclimits/domain/belt"
)

// BeltRenderer turns a swept confidence belt into an artifact on disk
// (chart, spreadsheet). Renderers never alter the belt.
type BeltRenderer interface {
	Name() string
	Extension() string
	Render(ctx context.Context, b *belt.Belt, path string) error
}
