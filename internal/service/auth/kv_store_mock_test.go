package auth

import (
	"context"
	"sync"
)

var _ kvStore = &kvStoreMock{}

type kvStoreMock struct {
	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte) error
	RemoveFunc func(ctx context.Context, key string) error

	calls struct {
		Get []struct {
			Key string
		}
		Set []struct {
			Key   string
			Value []byte
		}
		Remove []struct {
			Key string
		}
	}
	lockGet    sync.RWMutex
	lockSet    sync.RWMutex
	lockRemove sync.RWMutex
}

func (mock *kvStoreMock) Get(ctx context.Context, key string) ([]byte, error) {
	if mock.GetFunc == nil {
		panic("kvStoreMock.GetFunc: method is nil but kvStore.Get was just called")
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, struct{ Key string }{Key: key})
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, key)
}

func (mock *kvStoreMock) GetCalls() []struct{ Key string } {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *kvStoreMock) Set(ctx context.Context, key string, value []byte) error {
	if mock.SetFunc == nil {
		panic("kvStoreMock.SetFunc: method is nil but kvStore.Set was just called")
	}
	callInfo := struct {
		Key   string
		Value []byte
	}{Key: key, Value: value}
	mock.lockSet.Lock()
	mock.calls.Set = append(mock.calls.Set, callInfo)
	mock.lockSet.Unlock()
	return mock.SetFunc(ctx, key, value)
}

func (mock *kvStoreMock) SetCalls() []struct {
	Key   string
	Value []byte
} {
	mock.lockSet.RLock()
	calls := mock.calls.Set
	mock.lockSet.RUnlock()
	return calls
}

func (mock *kvStoreMock) Remove(ctx context.Context, key string) error {
	if mock.RemoveFunc == nil {
		panic("kvStoreMock.RemoveFunc: method is nil but kvStore.Remove was just called")
	}
	mock.lockRemove.Lock()
	mock.calls.Remove = append(mock.calls.Remove, struct{ Key string }{Key: key})
	mock.lockRemove.Unlock()
	return mock.RemoveFunc(ctx, key)
}

func (mock *kvStoreMock) RemoveCalls() []struct{ Key string } {
	mock.lockRemove.RLock()
	calls := mock.calls.Remove
	mock.lockRemove.RUnlock()
	return calls
}
