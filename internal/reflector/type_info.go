// Package reflector derives stable type tokens for message values.
// Tokens are computed once per Go type and cached, so the publish hot path
// pays a single map lookup rather than a reflection walk.
package reflector

import (
	"reflect"
	"sync"
)

// TypeInfo is the cached identity of a Go type. Name is the token used to
// key subscriptions: "<pkg path>.<type name>".
type TypeInfo struct {
	Name string
	Type reflect.Type
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[reflect.Type]TypeInfo)
)

// TypeInfoOf returns the TypeInfo for the dynamic type of x.
func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

// TypeInfoFor returns the TypeInfo for the static type T.
func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeInfoForType returns the TypeInfo for t. Pointer types resolve to
// their element type, so *Msg and Msg share one token.
func TypeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{}
	}

	cacheMu.RLock()
	ti, ok := cache[t]
	cacheMu.RUnlock()
	if ok {
		return ti
	}

	et := t
	if et.Kind() == reflect.Pointer {
		et = et.Elem()
	}

	ti = TypeInfo{
		Name: et.PkgPath() + "." + et.Name(),
		Type: et,
	}

	cacheMu.Lock()
	cache[t] = ti
	cacheMu.Unlock()
	return ti
}
