package repository

import "errors"

// ErrNotFound возвращается командами изменения, не затронувшими ни одной строки
var ErrNotFound = errors.New("record not found")
