package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	ProjectHandler    *ProjectHandler
	InspectionHandler *InspectionHandler
	PhotoHandler      *PhotoHandler
}
