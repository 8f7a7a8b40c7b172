package mocks

import (
	"testing"

	"github.com/marksb/aeron/internal/proxy"
	"go.uber.org/mock/gomock"
)

func TestMockSenderProxySatisfiesInterface(t *testing.T) {
	ctrl := gomock.NewController(t)
	var sp proxy.SenderProxy = NewMockSenderProxy(ctrl)

	mock := sp.(*MockSenderProxy)
	mock.EXPECT().NewNetworkPublication(gomock.Any()).Return(true)

	if !sp.NewNetworkPublication(proxy.SenderCommand{RegistrationID: 1}) {
		t.Fatal("expected mocked call to return true")
	}
}

func TestMockReceiverProxySatisfiesInterface(t *testing.T) {
	ctrl := gomock.NewController(t)
	var rp proxy.ReceiverProxy = NewMockReceiverProxy(ctrl)

	mock := rp.(*MockReceiverProxy)
	mock.EXPECT().RegisterSubscription(gomock.Any()).Return(true)

	if !rp.RegisterSubscription(proxy.ReceiverCommand{RegistrationID: 1}) {
		t.Fatal("expected mocked call to return true")
	}
}
