package formstate

// ChangeEvent describes one successful Form Context mutation for logging.
type ChangeEvent struct {
	Op       string
	Key      string
	Lot      Lot
	Previous Value
	Current  Value
}

// ChangeLogger records Form Context mutations. Implementations must not
// block: the core performs no I/O and expects the same of its callbacks.
type ChangeLogger interface {
	LogChange(ChangeEvent)
}

// ChangeLoggerFunc adapts a function to ChangeLogger.
type ChangeLoggerFunc func(ChangeEvent)

// LogChange implements ChangeLogger.
func (f ChangeLoggerFunc) LogChange(event ChangeEvent) {
	if f != nil {
		f(event)
	}
}

type noopChangeLogger struct{}

func (noopChangeLogger) LogChange(ChangeEvent) {}
