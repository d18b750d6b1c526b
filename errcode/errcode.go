package errcode

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Clock resolve (recoverable: retry with a relaxed request).
	InvalidOscillatorFrequency Code = "invalid_oscillator_frequency"
	PLLUnattainable            Code = "pll_config_unattainable"
	BusFrequencyExceeded       Code = "bus_frequency_exceeded"
	USBClockUnattainable       Code = "usb_clock_unattainable"

	// Clock commit.
	HardwareNotReady Code = "hardware_not_ready"

	// Pin construction.
	UnknownPort   Code = "unknown_port"
	UnknownPin    Code = "unknown_pin"
	PinInUse      Code = "pin_in_use"
	WrongGrant    Code = "wrong_grant"
	AFUnsupported Code = "alternate_function_unsupported"

	// Generic.
	InvalidParams Code = "invalid_params"
	Unsupported   Code = "unsupported"
	Timeout       Code = "timeout"
	Nack          Code = "nack"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Is reports whether err carries the given code.
func Is(err error, c Code) bool { return Of(err) == c }
