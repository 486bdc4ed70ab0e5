package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// MergeData накладывает patch поверх base.
//
// Если оба значения JSON-объекты, ключи patch перезаписывают ключи base,
// а ключ со значением null удаляется. Во всех остальных случаях patch
// полностью заменяет base. Пустой patch возвращает копию base.
func MergeData(base, patch json.RawMessage) (json.RawMessage, error) {
	if isEmpty(patch) {
		return cloneRaw(base), nil
	}
	if isEmpty(base) {
		return cloneRaw(patch), nil
	}

	patchObj, ok, err := asObject(patch)
	if err != nil {
		return nil, fmt.Errorf("invalid patch: %w", err)
	}
	if !ok {
		return cloneRaw(patch), nil
	}
	baseObj, ok, err := asObject(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base: %w", err)
	}
	if !ok {
		return cloneRaw(patch), nil
	}

	for k, v := range patchObj {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			delete(baseObj, k)
			continue
		}
		baseObj[k] = v
	}

	out, err := json.Marshal(baseObj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged data: %w", err)
	}
	return out, nil
}

// EqualData сравнивает два JSON документа семантически (без учета
// форматирования и порядка ключей). Пустые значения равны только друг другу.
func EqualData(a, b json.RawMessage) bool {
	if isEmpty(a) || isEmpty(b) {
		return isEmpty(a) && isEmpty(b)
	}
	if bytes.Equal(a, b) {
		return true
	}
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}

func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, false, fmt.Errorf("malformed JSON")
		}
		return nil, false, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false, err
	}
	return obj, true, nil
}

// ReplacementPatch строит patch, который при наложении через MergeData
// на current дает ровно target: ключи current, отсутствующие в target,
// удаляются через null. Для не-объектов patch равен target.
func ReplacementPatch(current, target json.RawMessage) (json.RawMessage, error) {
	if isEmpty(target) {
		return nil, nil
	}
	targetObj, ok, err := asObject(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}
	if !ok || isEmpty(current) {
		return cloneRaw(target), nil
	}
	currentObj, ok, err := asObject(current)
	if err != nil || !ok {
		return cloneRaw(target), nil
	}

	for k := range currentObj {
		if _, keep := targetObj[k]; !keep {
			targetObj[k] = json.RawMessage("null")
		}
	}

	out, err := json.Marshal(targetObj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patch: %w", err)
	}
	return out, nil
}
