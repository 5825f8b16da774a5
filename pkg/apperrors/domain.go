package apperrors

import (
	"net/http"
)

/*
Фабрики для доменных ошибок трёх сущностей.
Сообщения фиксированы: фронтенд показывает их как есть.
*/

// NewProjectNotFound - проект с указанным ID не существует (404)
func NewProjectNotFound() *AppError {
	return New(CodeNotFound, "project", "Project not found", http.StatusNotFound)
}

// NewInspectionNotFound - запись о проверке не существует (404)
func NewInspectionNotFound() *AppError {
	return New(CodeNotFound, "inspection", "Inspection not found", http.StatusNotFound)
}

// NewPhotoNotFound - фото не существует (404)
func NewPhotoNotFound() *AppError {
	return New(CodeNotFound, "photo", "Photo not found", http.StatusNotFound)
}

// NewNotOwnerError - заголовок Owner не совпал с владельцем проекта (403)
func NewNotOwnerError() *AppError {
	return New(CodeForbidden, "project",
		"Access denied: You are not the owner of this project", http.StatusForbidden)
}

// ErrInvalidStatus - фабрика для невалидных значений закрытых перечислений (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}
