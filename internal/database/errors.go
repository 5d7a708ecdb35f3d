package database

import "errors"

// Ошибки хранилища, на которые реагирует слой бота и админ-API.
var (
	// ErrNotFound - запрошенная запись отсутствует.
	ErrNotFound = errors.New("запись не найдена")

	// ErrInsufficientBonus - на балансе меньше баллов, чем списывается.
	ErrInsufficientBonus = errors.New("недостаточно бонусных баллов")

	// ErrInvalidTransition - запрошенный переход статуса не разрешен
	// жизненным циклом заказа.
	ErrInvalidTransition = errors.New("недопустимый переход статуса")

	// ErrRewardAlreadyResolved - вознаграждение уже одобрено или отклонено.
	ErrRewardAlreadyResolved = errors.New("вознаграждение уже обработано")
)
