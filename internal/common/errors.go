// Package common — errors.go определяет ошибки, общие для всех модулей сервиса.
// Обработчики различают по ним тип проблемы и выбирают HTTP-статус ответа.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Базовые категории ошибок. Конкретные ошибки ниже оборачивают одну из них,
// поэтому errors.Is(err, ErrValidation) работает для всех ошибок валидации.
var (
	// ErrValidation — в запросе не хватает обязательных полей или они некорректны
	ErrValidation = errors.New("некорректный запрос")
	// ErrNotFound — запрошенная сущность не найдена
	ErrNotFound = errors.New("не найдено")
	// ErrConflict — запрос противоречит уже сохранённым данным
	ErrConflict = errors.New("конфликт данных")
	// ErrUpstream — хранилище или канал уведомлений недоступен
	ErrUpstream = errors.New("внешний сервис недоступен")
)

// Ошибки пользователей и записей
var (
	// ErrUserRequired — не передан ни userId, ни email
	ErrUserRequired = fmt.Errorf("%w: нужен userId или email", ErrValidation)
	// ErrUserIDTaken — userId уже принадлежит пользователю с другим email
	ErrUserIDTaken = fmt.Errorf("%w: userId уже занят другим email", ErrConflict)
	// ErrUserNotFound — пользователь не найден
	ErrUserNotFound = fmt.Errorf("%w: пользователь не найден", ErrNotFound)
	// ErrRecordNotFound — записи за этот день нет
	ErrRecordNotFound = fmt.Errorf("%w: запись за день не найдена", ErrNotFound)
	// ErrInvalidTarget — дневная цель должна быть положительной
	ErrInvalidTarget = fmt.Errorf("%w: цель должна быть больше нуля", ErrValidation)
)

// Ошибки наград
var (
	// ErrRewardIDRequired — не передан rewardId
	ErrRewardIDRequired = fmt.Errorf("%w: rewardId обязателен", ErrValidation)
	// ErrUnknownReward — такой награды нет в каталоге
	ErrUnknownReward = fmt.Errorf("%w: награда не найдена", ErrNotFound)
	// ErrRewardLocked — условия награды ещё не выполнены
	ErrRewardLocked = errors.New("условия награды ещё не выполнены")
)

// Ошибки уведомлений
var (
	// ErrRecipientRequired — некуда отправлять уведомление
	ErrRecipientRequired = fmt.Errorf("%w: не указан получатель", ErrValidation)
	// ErrUnknownChannel — канал уведомлений не поддерживается
	ErrUnknownChannel = errors.New("неизвестный канал уведомлений")
)

// Upstream оборачивает ошибку хранилища или внешнего API так,
// что errors.Is(err, ErrUpstream) и errors.Is(err, исходная) оба истинны.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}

// HTTPStatus возвращает HTTP-статус для ошибки сервиса.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrRewardLocked):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
