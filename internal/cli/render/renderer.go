package render

import "github.com/spacegov/spacegov/internal/usecase"

type Renderer[T any] interface {
	Render(result T) error
}

var (
	_ Renderer[*usecase.InitSpaceResult] = (*InitRenderer)(nil)
	_ Renderer[*usecase.ScenarioResult]  = (*ScenarioRenderer)(nil)
)
