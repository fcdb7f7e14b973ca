package insights

import (
	"github.com/storelens/storelens/internal/insights/service"
	"go.uber.org/fx"
)

var Module = fx.Module("insights.service",
	fx.Provide(service.NewService),
)
