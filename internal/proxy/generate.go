package proxy

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_proxy.go -package=mocks github.com/marksb/aeron/internal/proxy SenderProxy,ReceiverProxy
