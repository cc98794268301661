package tlmbox

// MboxOption is an interface which the mailbox front-end implements to allow
// using configuration options.
type MboxOption interface {
	SetEventChannelCapacity(int) error
	SetLogger(Logger) error
}

// An Option is a configuration function, which configures the mailbox.
type Option func(MboxOption) error

// OptEventChannelCapacity overrides the depth of the consumer event channel.
// Events arriving while the channel is full are dropped and their buffers
// returned to the coprocessor pool.
func OptEventChannelCapacity(n int) Option {
	return func(opt MboxOption) error {
		return opt.SetEventChannelCapacity(n)
	}
}

// OptLogger overrides the package logger for this mailbox instance.
func OptLogger(l Logger) Option {
	return func(opt MboxOption) error {
		return opt.SetLogger(l)
	}
}
