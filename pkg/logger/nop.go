package logger

type nop struct{}

// NewNop returns a logger that discards everything. Meant for tests.
func NewNop() Logger {
	return nop{}
}

func (nop) Debug(msg string, args ...any) {}

func (nop) Info(msg string, args ...any) {}

func (nop) Warn(msg string, args ...any) {}

func (nop) Error(msg string, args ...any) {}

func (n nop) WithComponent(name string) Logger { return n }
