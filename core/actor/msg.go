package actor

import "github.com/codewandler/actors-go/internal/reflector"

// msgTyper lets a message override the token derived from its Go type.
type msgTyper interface{ MsgType() string }

func msgTypeFor[M any]() string {
	var z M
	if mt, ok := any(z).(msgTyper); ok {
		return mt.MsgType()
	}
	return reflector.TypeInfoFor[M]().Name
}

func msgTypeOf(x any) string {
	if mt, ok := x.(msgTyper); ok {
		return mt.MsgType()
	}
	return reflector.TypeInfoOf(x).Name
}
