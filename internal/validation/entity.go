package validation

import (
	"fmt"
	"regexp"
)

// EntityTypePattern определяет допустимый формат типа сущности.
// Латинские буквы в нижнем регистре, цифры, '_' и '-', первая буква обязательна.
var EntityTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

// EntityIDPattern определяет допустимый формат идентификатора сущности.
// Запрещены '/' и управляющие символы, т.к. id используется в URL и ключах bbolt.
var EntityIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

const (
	// MaxEntityTypeLen максимальная длина типа сущности
	MaxEntityTypeLen = 64
	// MaxEntityIDLen максимальная длина идентификатора
	MaxEntityIDLen = 128
)

// ValidateEntityType проверяет тип сущности
func ValidateEntityType(entityType string) error {
	if entityType == "" {
		return fmt.Errorf("entity type cannot be empty")
	}
	if len(entityType) > MaxEntityTypeLen {
		return fmt.Errorf("entity type must not exceed %d characters", MaxEntityTypeLen)
	}
	if !EntityTypePattern.MatchString(entityType) {
		return fmt.Errorf("entity type must start with a lowercase letter and contain only a-z, 0-9, '_' and '-'")
	}
	return nil
}

// ValidateEntityID проверяет идентификатор сущности
func ValidateEntityID(id string) error {
	if id == "" {
		return fmt.Errorf("entity id cannot be empty")
	}
	if len(id) > MaxEntityIDLen {
		return fmt.Errorf("entity id must not exceed %d characters", MaxEntityIDLen)
	}
	if !EntityIDPattern.MatchString(id) {
		return fmt.Errorf("entity id can only contain letters, numbers, '.', '_', ':' and '-'")
	}
	return nil
}

// ValidateEntityKey проверяет пару (type, id)
func ValidateEntityKey(entityType, id string) error {
	if err := ValidateEntityType(entityType); err != nil {
		return err
	}
	return ValidateEntityID(id)
}
