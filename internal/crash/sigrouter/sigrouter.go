// Package sigrouter installs process-wide handlers for the fatal
// hardware-fault signals and routes each delivery into a crash report
// followed by abnormal termination.
//
// The supported set is closed: SIGSEGV, SIGILL and SIGFPE. For anything
// else HandleSignal fails with Unknown and the signal's disposition is
// left untouched.
//
// Registration state is process-wide and has no teardown: a slot moves
// from unregistered to registered and can only be overwritten by a later
// HandleSignal call (last writer wins). Each call returns the previously
// installed handler (initially the Default sentinel standing for the
// operating system's default disposition) so a caller that needs
// restoration can capture it and reinstall.
//
// Go-runtime caveat: synchronous faults raised by Go code itself are
// turned into runtime panics before signal delivery and never reach this
// router; those are covered by report.HandleCrash on the panic side.
// The router observes fatal signals delivered to the process from
// outside (and faults in non-Go code on platforms that forward them).
// Delivery arrives on an ordinary goroutine via os/signal, which is what
// makes the reporting path safe to run at all; the dispatch path still
// avoids locks and the capture underneath it avoids allocation.
package sigrouter

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kolkov/crashtrace/internal/crash/report"
	"github.com/kolkov/crashtrace/internal/crash/symbolize"
)

// SignalError is the typed failure of HandleSignal.
type SignalError int

const (
	// Unknown means the requested signal is outside the supported set.
	Unknown SignalError = iota + 1

	// SigErr means the operating-system registration was rejected; the
	// previous disposition is untouched.
	SigErr
)

// Error implements error.
func (e SignalError) Error() string {
	switch e {
	case Unknown:
		return "signal not in the supported fatal set"
	case SigErr:
		return "signal handler registration rejected"
	default:
		return "unknown signal error"
	}
}

// Handler is an installed signal disposition. Values returned by
// HandleSignal are comparable, so callers can check a previous handler
// against Default.
type Handler interface {
	// Handle runs the disposition for sig. For Default this re-raises
	// the OS default action; for installed crash handlers it reports
	// and terminates. Handle never returns control to faulted code.
	Handle(sig os.Signal)
}

type defaultDisposition struct{}

func (defaultDisposition) Handle(sig os.Signal) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return
	}
	terminate(s)
}

// Default is the sentinel for the operating system's default
// disposition; it is what the first successful HandleSignal call for a
// slot returns as the previous handler.
var Default Handler = defaultDisposition{}

// crashHandler is the internal disposition HandleSignal installs.
// A value type so that two registrations of the same signal compare
// equal, which is what re-registration reports as "previous".
type crashHandler struct {
	sig syscall.Signal
}

func (h crashHandler) Handle(os.Signal) {
	fault(h.sig)
}

// diagnostics maps each supported signal to its one-line explanation.
// Immutable after init; read from the dispatch path without locks.
var diagnostics = map[syscall.Signal]string{
	syscall.SIGSEGV: "Received 'SIGSEGV' signal. Invalid memory access occurred (segmentation fault).",
	syscall.SIGILL:  "Received 'SIGILL' signal. Invalid program image (illegal/invalid instruction, i.e. nullptr dereferencing).",
	syscall.SIGFPE:  "Received 'SIGFPE' signal. Erroneous arithmetic operation (i.e. divide by zero).",
}

var router = struct {
	// mu orders registrations; the dispatch path never takes it.
	mu sync.Mutex

	// slots holds the currently installed Handler per signal.
	// sync.Map so dispatch can read lock-free while registration
	// overwrites.
	slots sync.Map // syscall.Signal -> Handler

	// delivery tracks the os/signal channel per signal so each slot is
	// wired to the OS exactly once.
	delivery map[syscall.Signal]chan os.Signal

	// register is the OS registration seam. Tests substitute a failing
	// implementation to exercise the SigErr path; the real one cannot
	// fail.
	register func(ch chan<- os.Signal, sig os.Signal) error
}{
	delivery: make(map[syscall.Signal]chan os.Signal),
	register: osRegister,
}

func osRegister(ch chan<- os.Signal, sig os.Signal) error {
	signal.Notify(ch, sig)
	return nil
}

// HandleSignal installs the crash-reporting handler for one supported
// fatal signal and returns the handler that was previously installed.
//
// The first successful call for a signal returns Default; later calls
// return the handler installed by the previous call. An unsupported
// signal fails with Unknown and a rejected OS registration fails with
// SigErr; in both failure cases nothing is installed.
func HandleSignal(sig os.Signal) (Handler, error) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return nil, Unknown
	}
	if _, supported := diagnostics[s]; !supported {
		return nil, Unknown
	}

	router.mu.Lock()
	defer router.mu.Unlock()

	if _, wired := router.delivery[s]; !wired {
		ch := make(chan os.Signal, 1)
		if err := router.register(ch, sig); err != nil {
			return nil, SigErr
		}
		router.delivery[s] = ch
		go dispatch(ch)
	}

	// Symbol tables load now, while allocation is still allowed; the
	// fault path only reads them. Best-effort: a stripped binary just
	// degrades frames to the unknown marker.
	_ = symbolize.Preload()

	prev := Default
	if old, registered := router.slots.Load(s); registered {
		prev = old.(Handler)
	}
	router.slots.Store(s, crashHandler{sig: s})
	return prev, nil
}

// Installed reports the currently installed handler for sig, or Default
// when the slot is unregistered. Diagnostic helper; the fault path does
// not use it.
func Installed(sig os.Signal) Handler {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return Default
	}
	if h, registered := router.slots.Load(s); registered {
		return h.(Handler)
	}
	return Default
}

func dispatch(ch <-chan os.Signal) {
	for sig := range ch {
		s, ok := sig.(syscall.Signal)
		if !ok {
			continue
		}
		if h, registered := router.slots.Load(s); registered {
			h.(Handler).Handle(sig)
		}
	}
}

// fault is the terminal crash sequence: one diagnostic line, the
// backtrace, then abnormal termination. It never returns.
func fault(s syscall.Signal) {
	os.Stderr.WriteString("\n\n")
	os.Stderr.WriteString(diagnostics[s])
	report.PrintBacktrace()
	terminate(s)
}

// resetForTest unwires every slot and restores the real registration
// seam. Test-only; not safe concurrently with dispatch.
func resetForTest() {
	router.mu.Lock()
	defer router.mu.Unlock()

	for s, ch := range router.delivery {
		signal.Stop(ch)
		close(ch)
		delete(router.delivery, s)
	}
	router.slots.Range(func(k, _ any) bool {
		router.slots.Delete(k)
		return true
	})
	router.register = osRegister
}
