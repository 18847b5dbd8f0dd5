package auth

import (
	"context"
	"sync"

	"github.com/heartmarshall/scolary/internal/domain"
)

var _ loginAPI = &loginAPIMock{}

type loginAPIMock struct {
	LoginFunc func(ctx context.Context, username string, password string) (*domain.AccessToken, error)

	calls struct {
		Login []struct {
			Ctx      context.Context
			Username string
			Password string
		}
	}
	lockLogin sync.RWMutex
}

func (mock *loginAPIMock) Login(ctx context.Context, username string, password string) (*domain.AccessToken, error) {
	if mock.LoginFunc == nil {
		panic("loginAPIMock.LoginFunc: method is nil but loginAPI.Login was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Username string
		Password string
	}{Ctx: ctx, Username: username, Password: password}
	mock.lockLogin.Lock()
	mock.calls.Login = append(mock.calls.Login, callInfo)
	mock.lockLogin.Unlock()
	return mock.LoginFunc(ctx, username, password)
}

func (mock *loginAPIMock) LoginCalls() []struct {
	Ctx      context.Context
	Username string
	Password string
} {
	mock.lockLogin.RLock()
	calls := mock.calls.Login
	mock.lockLogin.RUnlock()
	return calls
}
