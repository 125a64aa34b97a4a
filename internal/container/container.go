package container

import (
	app "vehicle-inspector/internal/application"
	"vehicle-inspector/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	Describer         port.AssessmentDescriber
}

// Deps внешние зависимости, из которых собираются сервисы
type Deps struct {
	Users     port.UserRepository
	Detector  port.DamageDetector
	Estimator port.CleanlinessEstimator
	Annotator port.DamageAnnotator
	Describer port.AssessmentDescriber
	Observer  port.InspectionObserver
}

func New(deps Deps) *Container {
	userService := app.NewUserService(deps.Users)

	opts := make([]app.InspectionOption, 0, 3)
	if deps.Annotator != nil {
		opts = append(opts, app.WithAnnotator(deps.Annotator))
	}
	if deps.Describer != nil {
		opts = append(opts, app.WithDescriber(deps.Describer))
	}
	if deps.Observer != nil {
		opts = append(opts, app.WithObserver(deps.Observer))
	}
	inspectionService := app.NewInspectionService(deps.Detector, deps.Estimator, opts...)

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
		Describer:         deps.Describer,
	}
}
