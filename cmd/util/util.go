package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/sidkik/groovepush/pkg/blobstore"
	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/sync"
)

// Mocked out for unit testing.
var (
	exit            = os.Exit
	stderr io.Writer = os.Stderr

	parseUserConfig = config.ParseUser
	newStore        = blobstore.New
)

// HandleFatalError prints the error and exits. Friendly errors are printed
// as is, and other errors are printed with their context.
func HandleFatalError(err error) {
	log.WithError(err).Debug("Fatal error")
	fmt.Fprintln(stderr, errors.GetPrintableMessage(err))
	exit(1)
}

// HandlePanic logs the stack trace of a panic before exiting. It must be
// deferred.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("stack", string(debug.Stack())).Error("Unexpected panic")
		fmt.Fprintf(stderr, "Unexpected error: %v\n", r)
		exit(1)
	}
}

// NewSyncer creates a Syncer for the store in the user config.
func NewSyncer(ctx context.Context) (*sync.Syncer, error) {
	userConfig, err := parseUserConfig()
	if err != nil {
		return nil, errors.WithContext(err, "parse user config")
	}

	store, err := newStore(ctx, userConfig.Store)
	if err != nil {
		return nil, errors.WithContext(err, "connect to store")
	}

	return sync.NewSyncer(store, log.StandardLogger(), clockwork.NewRealClock(),
		userConfig.Concurrency), nil
}

// ProgressPrinter prints a message followed by a dot every second until
// it's stopped.
type ProgressPrinter struct {
	out      io.Writer
	msg      string
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewProgressPrinter creates a ProgressPrinter. Run must be called to start
// printing.
func NewProgressPrinter(out io.Writer, msg string) *ProgressPrinter {
	return &ProgressPrinter{
		out:      out,
		msg:      msg,
		interval: time.Second,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run prints until Stop is called.
func (pp *ProgressPrinter) Run() {
	defer close(pp.done)

	fmt.Fprint(pp.out, pp.msg)
	ticker := time.NewTicker(pp.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fmt.Fprint(pp.out, ".")
		case <-pp.stop:
			fmt.Fprintln(pp.out)
			return
		}
	}
}

// Stop stops printing, and waits for the final newline to be written.
func (pp *ProgressPrinter) Stop() {
	close(pp.stop)
	<-pp.done
}
