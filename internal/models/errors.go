package models

import "errors"

// Таксономия ошибок ядра. Сервисы оборачивают их через fmt.Errorf("%w: ...")
var (
	// ErrValidation некорректные входные данные, отклоняются до любой записи
	ErrValidation = errors.New("validation error")
	// ErrAuthorization вызывающий не имеет права на операцию
	ErrAuthorization = errors.New("forbidden")
	// ErrStateConflict недопустимый переход состояния или проигранная гонка за инцидент
	ErrStateConflict = errors.New("state conflict")
	// ErrNotFound запись не существует
	ErrNotFound = errors.New("not found")
)
