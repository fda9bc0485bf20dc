package handlers

import "fmt"

// errInvalidIntQuery формирует ошибку разбора числового query параметра.
func errInvalidIntQuery(name string) error {
	return fmt.Errorf("параметр %s должен быть целым числом", name)
}
