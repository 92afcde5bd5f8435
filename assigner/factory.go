package assigner

import (
	"context"
	"sync"

	"code.cloudfoundry.org/clock"
	"github.com/dcos/portassign/assigner/errors"
	"github.com/dcos/portassign/log"
	"github.com/dcos/portassign/params"
)

// global is the process-wide assigner handed out by Get. globalMu covers both
// the check for an existing instance and its creation.
var (
	globalMu     sync.Mutex
	global       *InputAssigner
	globalParams params.Parameters
)

type options struct {
	clock clock.Clock
	probe PortProbe
}

// Option customizes how New builds an assigner.
type Option func(*options)

// WithClock sets the clock assignment timestamps are taken from.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithPortProbe replaces the way ephemeral ports are obtained from the
// operating system.
func WithPortProbe(probe PortProbe) Option {
	return func(o *options) {
		o.probe = probe
	}
}

// New builds an InputAssigner for the mode selected by listen_port_mode,
// defaulting to ephemeral. An unknown mode, or parameters the selected
// strategy cannot use, return ErrConfiguration.
func New(p params.Parameters, opts ...Option) (*InputAssigner, error) {
	o := options{clock: clock.NewClock()}
	for _, opt := range opts {
		opt(&o)
	}

	modeStr := p.GetString(params.ListenPortMode, params.DefaultListenPortMode)

	var (
		s   Strategy
		err error
	)
	switch params.ParsePortMode(modeStr) {
	case params.PortModeSingle:
		s, err = NewSinglePortStrategy(p, o.clock)
	case params.PortModeEphemeral:
		s, err = NewEphemeralPortStrategy(p, o.clock, o.probe)
	case params.PortModeRange:
		s, err = NewPortRangeStrategy(p, o.clock)
	default:
		return nil, errors.ErrConfiguration(params.ListenPortMode, modeStr, "unknown port mode")
	}
	if err != nil {
		return nil, err
	}
	return NewInputAssigner(s), nil
}

// Get returns the process-wide InputAssigner, building it from p on the first
// call. Later calls return the same instance and ignore p entirely. If the
// first call's parameters cannot produce an assigner, the failure is logged
// as fatal and the process exits.
func Get(ctx context.Context, p params.Parameters, opts ...Option) *InputAssigner {
	ctx = log.WithModule(ctx, "assigner")

	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		logger := log.G(ctx)
		if !p.Equal(globalParams) {
			logger = logger.WithField("parameters.initial", globalParams.String())
		}
		logger.Infof("reusing existing InputAssigner, ignoring parameters: %v", p)
		return global
	}

	log.G(ctx).Infof("creating new InputAssigner with parameters: %v", p)
	a, err := New(p, opts...)
	if err != nil {
		log.G(ctx).WithError(err).Fatal("failed to create InputAssigner")
		// only reached when the logger has been told not to exit
		return nil
	}

	log.G(ctx).WithField("mode", a.Mode()).Info("InputAssigner created")
	global = a
	globalParams = p
	return global
}

func configError(err error) error {
	if verr, ok := err.(*params.ValueError); ok {
		return errors.ErrConfiguration(verr.Key, verr.Value, "%v", verr.Err)
	}
	return errors.ErrConfiguration("parameters", "", "%v", err)
}
