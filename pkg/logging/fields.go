package logging

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Domain field constructors

// CircuitID tags an entry with the logical circuit it concerns.
func CircuitID(id string) Field {
	return Field{Key: "circuit_id", Value: id}
}

// Panel tags an entry with a panel device id.
func Panel(id string) Field {
	return Field{Key: "panel", Value: id}
}

// Address tags an entry with an SLC device address.
func Address(addr int) Field {
	return Field{Key: "address", Value: addr}
}

// Amps records a current value.
func Amps(key string, value float64) Field {
	return Field{Key: key, Value: value}
}
