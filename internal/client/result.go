package client

import "errors"

// Result - единый конверт исхода операции API клиента.
// Вместо динамического {success, data?, error?} используется теговый вариант:
// к данным нельзя добраться, не сузив результат через Data().
type Result[T any] struct {
	success bool
	data    T
	err     string
}

// OK создает успешный результат с данными.
func OK[T any](data T) Result[T] {
	return Result[T]{success: true, data: data}
}

// Fail создает неуспешный результат с сообщением для пользователя.
func Fail[T any](message string) Result[T] {
	return Result[T]{err: message}
}

// Success сообщает, завершилась ли операция успешно.
func (r Result[T]) Success() bool {
	return r.success
}

// Data возвращает данные и признак их наличия.
func (r Result[T]) Data() (T, bool) {
	return r.data, r.success
}

// MustData возвращает данные успешного результата.
// Паникует на неуспешном - только для тестов и примеров.
func (r Result[T]) MustData() T {
	if !r.success {
		panic("client: MustData on failed result: " + r.err)
	}
	return r.data
}

// Err возвращает сообщение об ошибке (пустая строка при успехе).
func (r Result[T]) Err() string {
	return r.err
}

// failFrom строит неуспешный результат из ошибки.
// Типизированная APIError несет сообщение для пользователя; для любых прочих
// ошибок используется запасное сообщение операции.
func failFrom[T any](err error, fallback string) Result[T] {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return Fail[T](apiErr.Message)
	}
	return Fail[T](fallback)
}
