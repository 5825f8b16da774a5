package services

// ServiceContainer собирает все сервисы приложения для передачи в хэндлеры.
type ServiceContainer struct {
	ProjectService    ProjectService
	InspectionService InspectionService
	PhotoService      PhotoService
}
