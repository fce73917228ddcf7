package alert

//go:generate go run go.uber.org/mock/mockgen -source=alert.go -destination=mocks/mock.go

// Client delivers operator alerts about extraction health.
type Client interface {
	Send(text string) error
}
